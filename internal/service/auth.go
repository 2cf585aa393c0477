package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"paraverse/internal/config"
	"paraverse/internal/model"
	"paraverse/internal/repository"
)

// AuthService issues and verifies the two token kinds: bearer session tokens
// and single-purpose password-reset tokens. Session tokens are stateless
// except for the per-user token version, which lets a password change or a
// logout-everywhere invalidate everything issued before it.
type AuthService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		config:   cfg,
	}
}

// GenerateSessionToken signs a session token for the user. Returns the token
// and its lifetime in seconds, which doubles as the cookie Max-Age.
func (s *AuthService) GenerateSessionToken(user *model.User, rememberMe bool) (string, int, error) {
	maxAge := s.config.SessionMaxAge
	if rememberMe {
		maxAge = s.config.RememberMeMaxAge
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":       user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"token_version": user.TokenVersion,
		"iat":           now.Unix(),
		"exp":           now.Add(time.Duration(maxAge) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", 0, fmt.Errorf("sign session token: %w", err)
	}
	return signed, maxAge, nil
}

// VerifySessionToken validates a session token end to end: signature, expiry,
// subject still exists, and the embedded token version matches the user's
// current one. Every failure collapses to ErrInvalidToken.
func (s *AuthService) VerifySessionToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	userID, ok := claimInt64(claims, "user_id")
	if !ok {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	version, ok := claimInt64(claims, "token_version")
	if !ok || int(version) != user.TokenVersion {
		return nil, model.ErrInvalidToken
	}

	return user, nil
}

// GenerateResetToken signs a short-lived single-purpose token authorizing one
// password change for the user.
func (s *AuthService) GenerateResetToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    model.TokenTypePasswordReset,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(s.config.ResetTokenMaxAge) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyResetToken validates a reset token and returns the subject user ID.
// A session token presented here fails on the type claim.
func (s *AuthService) VerifyResetToken(tokenString string) (int64, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return 0, model.ErrInvalidResetToken
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != model.TokenTypePasswordReset {
		return 0, model.ErrInvalidResetToken
	}

	userID, ok := claimInt64(claims, "user_id")
	if !ok {
		return 0, model.ErrInvalidResetToken
	}
	return userID, nil
}

// parseClaims validates the signature and registered claims (exp included).
func (s *AuthService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// claimInt64 reads a numeric claim. JSON numbers decode as float64.
func claimInt64(claims jwt.MapClaims, key string) (int64, bool) {
	f, ok := claims[key].(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
