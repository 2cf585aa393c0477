package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"paraverse/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postRow scans a post joined with its author's public fields.
type postRow struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Details    string    `db:"details"`
	Category   string    `db:"category"`
	AuthorID   int64     `db:"author_id"`
	LikeCount  int       `db:"like_count"`
	CreatedAt  time.Time `db:"created_at"`
	AuthorName string    `db:"author_username"`
	AuthorPic  *string   `db:"author_picture"`
}

func (row postRow) toPost() model.Post {
	return model.Post{
		ID:        row.ID,
		Title:     row.Title,
		Details:   row.Details,
		Category:  row.Category,
		AuthorID:  row.AuthorID,
		LikeCount: row.LikeCount,
		CreatedAt: row.CreatedAt,
		Author: &model.UserSummary{
			ID:             row.AuthorID,
			Username:       row.AuthorName,
			ProfilePicture: row.AuthorPic,
		},
	}
}

const postSelect = `
	SELECT p.id, p.title, p.details, p.category, p.author_id, p.like_count, p.created_at,
	       u.username AS author_username, u.profile_picture AS author_picture
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

// Create inserts a new post and returns it with the author joined.
func (r *postRepository) Create(ctx context.Context, authorID int64, title, details, category string) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, details, category, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, title, details, category, authorID)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a single post with its author.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	var row postRow
	err := r.db.GetContext(ctx, &row, postSelect+`WHERE p.id = $1`, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	post := row.toPost()
	return &post, nil
}

// likeEscaper neutralizes LIKE metacharacters so a search term matches
// literally. Postgres treats backslash as the default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List returns one page of posts, newest first, with the total matching count.
// Category narrows to an exact match; search matches title or details
// case-insensitively.
func (r *postRepository) List(ctx context.Context, q model.PostListQuery) ([]model.Post, int, error) {
	var conds []string
	var args []interface{}

	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.details ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM posts p %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	args = append(args, q.Limit, offset)
	listQuery := fmt.Sprintf("%s %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		postSelect, where, len(args)-1, len(args))

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, total, nil
}

// ListByAuthor returns one page of a single author's posts, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64, page, limit int) ([]model.Post, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID); err != nil {
		return nil, 0, fmt.Errorf("count author posts: %w", err)
	}

	query := postSelect + `
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, authorID, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("list author posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, total, nil
}

// Update applies the supplied patch fields only.
func (r *postRepository) Update(ctx context.Context, postID int64, patch model.UpdatePostRequest) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    details = COALESCE($3, details),
		    category = COALESCE($4, category)
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, postID, patch.Title, patch.Details, patch.Category)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrPostNotFound
	}

	return r.GetByID(ctx, postID)
}

// Delete hard-deletes a post. Comments and likes go with it via the
// ON DELETE CASCADE constraints.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
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

// ListCategories returns the distinct categories currently in use.
func (r *postRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM posts ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}
