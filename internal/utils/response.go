package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponseStruct defines the schema for plain acknowledgements
type MessageResponseStruct struct {
	Message string `json:"message"`
}

// SuccessResponse sends a JSON body with the given status
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error body
func ErrorResponse(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponseStruct{Error: message, Code: code})
}

// NotFoundResponse sends a 404 for an unknown route
func NotFoundResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found: "+c.Method()+" "+c.Path())
}
