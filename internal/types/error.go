package types

import (
	"fmt"
	"net/http"
)

// APIError is a failure that is reported to the client as-is.
// Anything that is not an APIError is treated as an internal error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s [code: %s]", e.Status, e.Message, e.Code)
}

// NewError creates an APIError
func NewError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 APIError
func BadRequest(code, message string) *APIError {
	return NewError(http.StatusBadRequest, code, message)
}

// NotFound creates a 404 APIError
func NotFound(code, message string) *APIError {
	return NewError(http.StatusNotFound, code, message)
}

// Conflict creates a 409 APIError
func Conflict(code, message string) *APIError {
	return NewError(http.StatusConflict, code, message)
}

// Unauthorized creates a 401 APIError
func Unauthorized(code, message string) *APIError {
	return NewError(http.StatusUnauthorized, code, message)
}

// Forbidden creates a 403 APIError
func Forbidden(message string) *APIError {
	return NewError(http.StatusForbidden, "FORBIDDEN", message)
}
