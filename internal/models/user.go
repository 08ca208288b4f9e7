package models

import (
	"time"
)

// Roles a user account may hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. The password hash is never serialized.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        *string   `gorm:"size:64;uniqueIndex" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"fullName"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the account holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
