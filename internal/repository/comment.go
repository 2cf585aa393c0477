package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"paraverse/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// commentRow scans a comment joined with its author's public fields.
type commentRow struct {
	ID         int64     `db:"id"`
	PostID     int64     `db:"post_id"`
	AuthorID   int64     `db:"author_id"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	AuthorName string    `db:"author_username"`
	AuthorPic  *string   `db:"author_picture"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:        row.ID,
		PostID:    row.PostID,
		AuthorID:  row.AuthorID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Author: &model.UserSummary{
			ID:             row.AuthorID,
			Username:       row.AuthorName,
			ProfilePicture: row.AuthorPic,
		},
	}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at,
	       u.username AS author_username, u.profile_picture AS author_picture
	FROM post_comments c
	JOIN users u ON u.id = c.author_id
`

// Create inserts a new comment and returns it with the author joined.
func (r *commentRepository) Create(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO post_comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, postID, authorID, content)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a single comment with its author and parent-post summary.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	type row struct {
		commentRow
		PostTitle string `db:"post_title"`
	}

	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at,
		       u.username AS author_username, u.profile_picture AS author_picture,
		       p.title AS post_title
		FROM post_comments c
		JOIN users u ON u.id = c.author_id
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1
	`
	var res row
	err := r.db.GetContext(ctx, &res, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	comment := res.toComment()
	comment.Post = &model.CommentPostRef{ID: res.PostID, Title: res.PostTitle}
	return &comment, nil
}

// ListByPost returns all comments of a post, newest first, with authors.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := commentSelect + `
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// Update overwrites the content and refreshes updated_at.
func (r *commentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE post_comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, commentID, content)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrCommentNotFound
	}

	return r.GetByID(ctx, commentID)
}

// Delete hard-deletes a comment.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
