package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// Session pairs a user with a freshly signed bearer token.
type Session struct {
	User  models.User
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Register creates a user and returns a signed session. The password
// is hashed before the insert ever happens.
func Register(in RegisterInput) (*Session, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &apperrors.ValidationError{Message: "Name is required"}
	}

	email := normalizeEmail(in.Email)

	if !validEmail(email) {
		return nil, &apperrors.ValidationError{Message: "A valid email is required"}
	}

	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, &apperrors.ValidationError{Message: "Password must be at least 6 characters"}
	}

	var existing models.User

	err := db.DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil, &apperrors.ConflictError{Message: "Email already exists"}
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.StoreError{Op: "check existing user", Err: err}
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, &apperrors.StoreError{Op: "hash password", Err: err}
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "create user", Err: err}
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, &apperrors.StoreError{Op: "sign token", Err: err}
	}

	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown email and wrong password produce
// the same error so accounts cannot be enumerated.
func Login(email, password string) (*Session, error) {
	invalid := &apperrors.AuthError{Message: "Invalid credentials"}

	var user models.User

	err := db.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, &apperrors.StoreError{Op: "fetch user", Err: err}
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, invalid
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, &apperrors.StoreError{Op: "sign token", Err: err}
	}

	return &Session{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to a live user row.
func Authenticate(tokenString string) (*models.User, error) {
	userID, err := auth.VerifyJWT(tokenString)
	if err != nil {
		return nil, &apperrors.AuthError{Message: "Invalid or expired token"}
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.AuthError{Message: "Invalid or expired token"}
		}
		return nil, &apperrors.StoreError{Op: "fetch user", Err: err}
	}

	return &user, nil
}

// UpdateUser applies a partial profile update. Changing the password
// requires the current one and re-hashes the new one before persisting.
func UpdateUser(userID uint, in UpdateUserInput) (*models.User, error) {
	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "User"}
		}
		return nil, &apperrors.StoreError{Op: "fetch user", Err: err}
	}

	updates := make(map[string]interface{})

	if in.Name != "" {
		updates["name"] = strings.TrimSpace(in.Name)
	}

	if in.Email != "" {
		email := normalizeEmail(in.Email)

		if !validEmail(email) {
			return nil, &apperrors.ValidationError{Message: "A valid email is required"}
		}

		if email != user.Email {
			var existing models.User
			err := db.DB.Where("email = ? AND id != ?", email, user.ID).First(&existing).Error
			if err == nil {
				return nil, &apperrors.ConflictError{Message: "Email already exists"}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperrors.StoreError{Op: "check existing email", Err: err}
			}
		}

		updates["email"] = email
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, &apperrors.ValidationError{Message: "Current password is required to change password"}
		}

		if !auth.CheckPassword(user.PasswordHash, in.CurrentPassword) {
			return nil, &apperrors.AuthError{Message: "Current password is incorrect"}
		}

		if utf8.RuneCountInString(in.NewPassword) < minPasswordLength {
			return nil, &apperrors.ValidationError{Message: "Password must be at least 6 characters"}
		}

		passwordHash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return nil, &apperrors.StoreError{Op: "hash password", Err: err}
		}

		updates["password_hash"] = passwordHash
	}

	if len(updates) == 0 {
		return nil, &apperrors.ValidationError{Message: "No valid fields to update"}
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "update user", Err: err}
	}

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "refresh user", Err: err}
	}

	return &user, nil
}

// DeleteUser removes a user and every task they own in one
// transaction. No route exposes this; it backs account cleanup and the
// cascade rule on stores without foreign-key enforcement.
func DeleteUser(userID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("owner_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})

	if err != nil {
		return &apperrors.StoreError{Op: "delete user", Err: err}
	}

	return nil
}
