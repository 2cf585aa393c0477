package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ProfilePicture *string   `db:"profile_picture" json:"profilePicture"`
	TokenVersion   int       `db:"token_version" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Public returns the fields of a user that are safe to serve to any caller.
func (u *User) Public() *UserPublic {
	return &UserPublic{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

// Summary returns the author shape embedded in posts, comments and likes.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserPublic is a user without credential material.
type UserPublic struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	ProfilePicture *string   `db:"profile_picture" json:"profilePicture"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// UserSummary is the author shape joined onto posts, comments and likes.
type UserSummary struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	ProfilePicture *string `db:"profile_picture" json:"profilePicture"`
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// ForgotPasswordRequest is the request body for requesting a reset mail.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the request body for consuming a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateProfileRequest carries the optional profile fields. The avatar, when
// present, is the raw uploaded bytes plus its declared content type; the
// avatar service turns it into an inline data URL before storage.
type UpdateProfileRequest struct {
	Username          *string
	AvatarBytes       []byte
	AvatarContentType string
}

// Avatar constraints. The raw upload is capped at 5MB and the encoded data
// URL must fit the database column.
const (
	MaxAvatarSizeBytes  = 5 * 1024 * 1024
	MaxAvatarEncodedLen = 2_000_000
	AvatarMaxDimension  = 512
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to register a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to register a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidUsername = errors.New("username must be 3-30 characters and contain only letters, numbers, and underscores")
	ErrWeakPassword    = errors.New("password must be at least 8 characters with uppercase, lowercase, and number")

	// ErrNothingToUpdate is returned when a profile update carries no fields
	ErrNothingToUpdate = errors.New("no valid fields to update")

	ErrInvalidImageType = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)
