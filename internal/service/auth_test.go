package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paraverse/internal/model"
)

func TestAuthService_SessionTokenRoundTrip(t *testing.T) {
	user := &model.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		TokenVersion: 0,
	}
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id != user.ID {
				return nil, model.ErrUserNotFound
			}
			return user, nil
		},
	}
	auth := NewAuthService(mockRepo, testConfig())

	token, maxAge, err := auth.GenerateSessionToken(user, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if maxAge != testConfig().SessionMaxAge {
		t.Errorf("maxAge = %d, want %d", maxAge, testConfig().SessionMaxAge)
	}

	verified, err := auth.VerifySessionToken(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if verified.ID != user.ID {
		t.Errorf("verified user ID = %d, want %d", verified.ID, user.ID)
	}
}

func TestAuthService_VerifySessionToken_Garbage(t *testing.T) {
	auth := NewAuthService(&mockUserRepository{}, testConfig())

	_, err := auth.VerifySessionToken(context.Background(), "not.a.token")
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
	}
}

func TestAuthService_VerifySessionToken_WrongSecret(t *testing.T) {
	user := &model.User{ID: 1}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "different-secret"
	otherAuth := NewAuthService(&mockUserRepository{}, otherCfg)

	token, _, err := otherAuth.GenerateSessionToken(user, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	auth := NewAuthService(&mockUserRepository{}, testConfig())
	if _, err := auth.VerifySessionToken(context.Background(), token); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
	}
}

func TestAuthService_VerifySessionToken_Expired(t *testing.T) {
	cfg := testConfig()
	auth := NewAuthService(&mockUserRepository{}, cfg)

	// Hand-craft an already-expired token with the right secret.
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":       int64(1),
		"token_version": 0,
		"iat":           now.Add(-2 * time.Hour).Unix(),
		"exp":           now.Add(-1 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := auth.VerifySessionToken(context.Background(), expired); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
	}
}

func TestAuthService_VersionBumpInvalidatesToken(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", TokenVersion: 0}
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return user, nil
		},
	}
	auth := NewAuthService(mockRepo, testConfig())

	token, _, err := auth.GenerateSessionToken(user, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := auth.VerifySessionToken(context.Background(), token); err != nil {
		t.Fatalf("token should verify before the bump: %v", err)
	}

	// Simulate a password change / logout-everywhere
	user.TokenVersion = 1

	if _, err := auth.VerifySessionToken(context.Background(), token); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v after version bump", err, model.ErrInvalidToken)
	}
}

func TestAuthService_VerifySessionToken_DeletedUser(t *testing.T) {
	user := &model.User{ID: 1}
	auth := NewAuthService(&mockUserRepository{}, testConfig()) // GetByID returns ErrUserNotFound

	token, _, err := auth.GenerateSessionToken(user, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := auth.VerifySessionToken(context.Background(), token); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
	}
}

func TestAuthService_ResetTokenRoundTrip(t *testing.T) {
	auth := NewAuthService(&mockUserRepository{}, testConfig())

	token, err := auth.GenerateResetToken(42)
	if err != nil {
		t.Fatalf("failed to generate reset token: %v", err)
	}

	userID, err := auth.VerifyResetToken(token)
	if err != nil {
		t.Fatalf("failed to verify reset token: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestAuthService_ResetTokenRejectedAsSession(t *testing.T) {
	user := &model.User{ID: 42, TokenVersion: 0}
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return user, nil
		},
	}
	auth := NewAuthService(mockRepo, testConfig())

	resetToken, err := auth.GenerateResetToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate reset token: %v", err)
	}

	// A reset token must not double as a session token: it carries no
	// token_version claim, so verification fails.
	if _, err := auth.VerifySessionToken(context.Background(), resetToken); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
	}
}
