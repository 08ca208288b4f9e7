package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost factor for stored passwords
const PasswordCost = 10

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput is the body of a registration request
type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

// LoginInput is the body of a login request
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var errInvalidCredentials = types.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password")

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a user account with the user role
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, types.BadRequest("MISSING_REQUIRED_FIELDS", "Email, password, and full name are required")
	}
	email := NormalizeEmail(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, types.BadRequest("INVALID_EMAIL_FORMAT", "Invalid email format")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, types.BadRequest("PASSWORD_TOO_SHORT", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, types.BadRequest("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	var phone *string
	if in.Phone != nil {
		if p := strings.TrimSpace(*in.Phone); p != "" {
			phone = &p
		}
	}

	if err := checkUnique(db, email, phone); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			// lost a race with a concurrent registration
			if uerr := checkUnique(db, email, phone); uerr != nil {
				return nil, uerr
			}
			return nil, types.Conflict("EMAIL_ALREADY_EXISTS", "Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	zap.S().Infow("User registered", "user_id", user.ID)
	return &user, nil
}

// checkUnique reports which unique field is already taken
func checkUnique(db *gorm.DB, email string, phone *string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return types.Conflict("EMAIL_ALREADY_EXISTS", "Email already registered")
	}
	if phone == nil {
		return nil
	}
	if err := db.Model(&models.User{}).Where("phone = ?", *phone).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if count > 0 {
		return types.Conflict("PHONE_ALREADY_EXISTS", "Phone number already registered")
	}
	return nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func Login(db *gorm.DB, in LoginInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, types.BadRequest("MISSING_REQUIRED_FIELDS", "Email and password are required")
	}

	var user models.User
	err := db.Where("email = ?", NormalizeEmail(in.Email)).First(&user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user by id
func GetUser(db *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NotFound("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is registered.
// An existing account with that email is promoted to admin.
func EnsureAdmin(db *gorm.DB, email, password, fullName string) (*models.User, error) {
	email = NormalizeEmail(email)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !user.IsAdmin() {
			if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
				return nil, fmt.Errorf("failed to promote %s: %w", email, err)
			}
			user.Role = models.RoleAdmin
			zap.S().Infow("Bootstrap administrator promoted", "user_id", user.ID)
		}
		return &user, nil
	case !database.IsNotFound(err):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user = models.User{Email: email, PasswordHash: hash, FullName: fullName, Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}
	zap.S().Infow("Bootstrap administrator created", "user_id", user.ID)
	return &user, nil
}
