package model

import "errors"

// Claim values identifying single-purpose tokens.
const TokenTypePasswordReset = "password_reset"

var (
	// ErrInvalidToken covers every session-token verification failure: bad
	// signature, expiry, missing claims, stale token version, or a subject
	// that no longer exists. Callers get no more detail than that.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidResetToken is the reset-flow equivalent, including a token
	// whose type claim is not password_reset.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
