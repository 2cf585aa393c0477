package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"paraverse/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, profile_picture)
		VALUES ($1, $2, $3, $4)
		RETURNING id, token_version, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.ProfilePicture,
	)

	err := row.Scan(&u.ID, &u.TokenVersion, &u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return uniqueViolationError(pqErr)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, profile_picture, token_version, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email. Callers pass the lowercased form.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, profile_picture, token_version, created_at
		FROM users
		WHERE email = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// FindByEmailOrUsername returns a user colliding with either field.
func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, profile_picture, token_version, created_at
		FROM users
		WHERE email = $1 OR username = $2
		LIMIT 1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email or username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile applies the supplied fields only. COALESCE keeps the stored
// value when the corresponding argument is NULL.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, username, profilePicture *string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    profile_picture = COALESCE($3, profile_picture)
		WHERE id = $1
		RETURNING id, username, email, password_hashed, profile_picture, token_version, created_at
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, username, profilePicture)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}

// UpdatePassword overwrites the hash and bumps the token version.
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHashed string) error {
	query := `
		UPDATE users
		SET password_hashed = $2, token_version = token_version + 1
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, passwordHashed)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// BumpTokenVersion invalidates all outstanding session tokens for a user.
func (r *userRepository) BumpTokenVersion(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET token_version = token_version + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to bump token version: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// uniqueViolationError maps a 23505 to the field-specific sentinel.
func uniqueViolationError(pqErr *pq.Error) error {
	if pqErr.Constraint == "users_email_key" {
		return model.ErrEmailExists
	}
	return model.ErrUsernameExists
}
