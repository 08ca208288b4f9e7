package services

import (
	"fmt"

	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ListUsers returns accounts newest first
func ListUsers(db *gorm.DB, page Page) ([]models.User, error) {
	query := db.Clauses(hints.Comment("select", "users.list"))

	users := []models.User{}
	if err := newestFirst(query, page.Normalize(DefaultUserLimit)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetRole changes the role of a user
func SetRole(db *gorm.DB, actor Actor, id uint64, obj validate.Object) (*models.User, error) {
	values, err := validate.Roles.Update(obj)
	if err != nil {
		return nil, err
	}
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}

	role := values.StringOr("role", models.RoleUser)
	if err := db.Model(&models.User{}).Where("id = ?", id).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	zap.S().Infow("User role changed", "user_id", id, "role", role, "by", actor.UserID)
	return user, nil
}
