package services

import "github.com/localnerve/lookout/internal/models"

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uint64
	Email  string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Is reports whether the caller is the referenced user
func (a Actor) Is(userID *uint64) bool {
	return userID != nil && *userID == a.UserID
}

// CanActFor reports whether the caller may attribute a row to userID.
// A nil userID means the caller itself.
func (a Actor) CanActFor(userID *uint64) bool {
	return userID == nil || a.IsAdmin() || *userID == a.UserID
}

// attribute returns the user a new row is attributed to
func (a Actor) attribute(requested *uint64) *uint64 {
	if requested != nil {
		return requested
	}
	id := a.UserID
	return &id
}
