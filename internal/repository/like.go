package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"paraverse/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the like state for one (user, post) pair inside a single
// transaction. The SELECT ... FOR UPDATE serializes concurrent toggles on the
// same pair; the unique constraint on (user_id, post_id) backstops the insert
// path. Either the like row and the counter both change, or neither does.
func (r *likeRepository) Toggle(ctx context.Context, userID, postID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var likeID int64
	err = tx.GetContext(ctx, &likeID, `
		SELECT id FROM post_likes
		WHERE user_id = $1 AND post_id = $2
		FOR UPDATE
	`, userID, postID)

	var liked bool
	switch {
	case err == sql.ErrNoRows:
		// Not liked yet: insert the row and increment the counter.
		_, err = tx.ExecContext(ctx, `INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)`, userID, postID)
		if err != nil {
			// 23503: the post_id FK has no target, i.e. the post is gone
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return false, model.ErrPostNotFound
			}
			return false, fmt.Errorf("insert like: %w", err)
		}
		if err := incrementLikeCount(ctx, tx, postID, 1); err != nil {
			return false, err
		}
		liked = true

	case err != nil:
		return false, fmt.Errorf("get like: %w", err)

	default:
		// Already liked: delete the row and decrement the counter.
		_, err = tx.ExecContext(ctx, `DELETE FROM post_likes WHERE id = $1`, likeID)
		if err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		if err := incrementLikeCount(ctx, tx, postID, -1); err != nil {
			return false, err
		}
		liked = false
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return liked, nil
}

// incrementLikeCount updates the denormalized counter on the post row.
func incrementLikeCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error {
	result, err := tx.ExecContext(ctx, `UPDATE posts SET like_count = like_count + $1 WHERE id = $2`, delta, postID)
	if err != nil {
		return fmt.Errorf("update like count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// Exists checks whether a like row exists for the pair.
func (r *likeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("check like exists: %w", err)
	}
	return exists, nil
}

// ListByPost returns the likes on a post, newest first, with liker summaries.
func (r *likeRepository) ListByPost(ctx context.Context, postID int64) ([]model.Like, error) {
	type likeRow struct {
		ID        int64     `db:"id"`
		UserID    int64     `db:"user_id"`
		PostID    int64     `db:"post_id"`
		CreatedAt time.Time `db:"created_at"`
		Username  string    `db:"username"`
		Picture   *string   `db:"profile_picture"`
	}

	query := `
		SELECT l.id, l.user_id, l.post_id, l.created_at,
		       u.username, u.profile_picture
		FROM post_likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.post_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`
	var rows []likeRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("list post likes: %w", err)
	}

	likes := make([]model.Like, len(rows))
	for i, row := range rows {
		likes[i] = model.Like{
			ID:        row.ID,
			UserID:    row.UserID,
			PostID:    row.PostID,
			CreatedAt: row.CreatedAt,
			User: &model.UserSummary{
				ID:             row.UserID,
				Username:       row.Username,
				ProfilePicture: row.Picture,
			},
		}
	}
	return likes, nil
}

// ListByUser returns the posts a user has liked, newest like first, with
// post summaries and their authors.
func (r *likeRepository) ListByUser(ctx context.Context, userID int64) ([]model.LikedPost, error) {
	type likedRow struct {
		ID            int64     `db:"id"`
		PostID        int64     `db:"post_id"`
		CreatedAt     time.Time `db:"created_at"`
		Title         string    `db:"title"`
		Details       string    `db:"details"`
		Category      string    `db:"category"`
		PostCreatedAt time.Time `db:"post_created_at"`
		AuthorID      int64     `db:"author_id"`
		AuthorName    string    `db:"author_username"`
		AuthorPic     *string   `db:"author_picture"`
	}

	query := `
		SELECT l.id, l.post_id, l.created_at,
		       p.title, p.details, p.category, p.created_at AS post_created_at,
		       p.author_id, u.username AS author_username, u.profile_picture AS author_picture
		FROM post_likes l
		JOIN posts p ON p.id = l.post_id
		JOIN users u ON u.id = p.author_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`
	var rows []likedRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list user likes: %w", err)
	}

	liked := make([]model.LikedPost, len(rows))
	for i, row := range rows {
		liked[i] = model.LikedPost{
			ID:        row.ID,
			PostID:    row.PostID,
			CreatedAt: row.CreatedAt,
			Post: model.PostSummary{
				ID:        row.PostID,
				Title:     row.Title,
				Details:   row.Details,
				Category:  row.Category,
				CreatedAt: row.PostCreatedAt,
				Author: &model.UserSummary{
					ID:             row.AuthorID,
					Username:       row.AuthorName,
					ProfilePicture: row.AuthorPic,
				},
			},
		}
	}
	return liked, nil
}
