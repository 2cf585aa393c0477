package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"paraverse/internal/model"
	"paraverse/internal/queue"
	"paraverse/internal/repository"
)

// bcryptCost matches the cost the stored hashes were created with.
const bcryptCost = 12

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

// validPassword requires at least 8 characters with an uppercase letter, a
// lowercase letter, and a digit.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// UserService handles accounts: signup, login, password reset, and profile
// updates. Token issuance itself lives in AuthService.
type UserService struct {
	repo      repository.UserRepository
	auth      *AuthService
	avatars   *AvatarService
	publisher queue.Publisher
}

func NewUserService(repo repository.UserRepository, auth *AuthService, avatars *AvatarService, publisher queue.Publisher) *UserService {
	return &UserService{
		repo:      repo,
		auth:      auth,
		avatars:   avatars,
		publisher: publisher,
	}
}

// Signup registers a new account. The stored email is lowercased; the
// password is stored only as a bcrypt hash.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !emailPattern.MatchString(email) {
		return nil, model.ErrInvalidEmail
	}
	if !usernamePattern.MatchString(username) {
		return nil, model.ErrInvalidUsername
	}
	if !validPassword(req.Password) {
		return nil, model.ErrWeakPassword
	}

	// Check both unique fields up front so the conflict message can name
	// the colliding one. The DB constraints still backstop races.
	existing, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Email == email {
			return nil, model.ErrEmailExists
		}
		return nil, model.ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHashed: string(hashed),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, int, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, "", 0, model.ErrInvalidEmail
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal whether the email is registered
		return nil, "", 0, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, "", 0, model.ErrInvalidCredentials
	}

	token, maxAge, err := s.auth.GenerateSessionToken(user, req.RememberMe)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to issue session token: %w", err)
	}

	return user, token, maxAge, nil
}

// RequestPasswordReset issues a reset token and queues the mail. It succeeds
// regardless of whether the email is registered; the caller's response must
// not reveal the difference.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return model.ErrInvalidEmail
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.auth.GenerateResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	// Mail delivery is best-effort and decoupled from this request.
	event := queue.NewResetRequestedEvent(user.Email, token)
	if _, err := s.publisher.Publish(ctx, queue.StreamMail, event); err != nil {
		log.Printf("[UserService] Failed to publish reset mail event: user=%d err=%v", user.ID, err)
	}

	return nil
}

// ResetPassword consumes a reset token and overwrites the stored hash. The
// token version bump in UpdatePassword invalidates all existing sessions.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	userID, err := s.auth.VerifyResetToken(resetToken)
	if err != nil {
		return err
	}

	if !validPassword(newPassword) {
		return model.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("[UserService] Password reset for user %d", userID)
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies an optional username change and/or avatar upload.
// At least one field must be present.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	var username *string
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if !usernamePattern.MatchString(name) {
			return nil, model.ErrInvalidUsername
		}
		taken, err := s.repo.ExistsByUsername(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			current, err := s.repo.GetByID(ctx, userID)
			if err != nil || current.Username != name {
				return nil, model.ErrUsernameExists
			}
		}
		username = &name
	}

	var picture *string
	if len(req.AvatarBytes) > 0 {
		dataURL, err := s.avatars.Process(req.AvatarBytes, req.AvatarContentType)
		if err != nil {
			return nil, err
		}
		picture = &dataURL
	}

	if username == nil && picture == nil {
		return nil, model.ErrNothingToUpdate
	}

	user, err := s.repo.UpdateProfile(ctx, userID, username, picture)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LogoutEverywhere bumps the user's token version so every outstanding
// session token stops verifying.
func (s *UserService) LogoutEverywhere(ctx context.Context, userID int64) error {
	if err := s.repo.BumpTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("failed to bump token version: %w", err)
	}
	log.Printf("[UserService] User %d logged out everywhere", userID)
	return nil
}
