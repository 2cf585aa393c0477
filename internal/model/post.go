package model

import (
	"errors"
	"time"
)

// Post is a user-submitted "what if" scenario.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Details   string    `db:"details" json:"details"`
	Category  string    `db:"category" json:"category"`
	AuthorID  int64     `db:"author_id" json:"authorId"`
	LikeCount int       `db:"like_count" json:"likes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Joined field (not in the posts table)
	Author *UserSummary `json:"author,omitempty"`
}

// PostSummary is the post shape embedded in a user's liked-posts listing.
type PostSummary struct {
	ID        int64        `db:"id" json:"id"`
	Title     string       `db:"title" json:"title"`
	Details   string       `db:"details" json:"details"`
	Category  string       `db:"category" json:"category"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Details  string `json:"details"`
	Category string `json:"category"`
}

// UpdatePostRequest is a closed patch: only supplied fields are applied, and
// at least one must be present.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Details  *string `json:"details"`
	Category *string `json:"category"`
}

// Empty reports whether the patch carries no fields.
func (r UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Details == nil && r.Category == nil
}

// PostListQuery holds the pagination and filter parameters for listing posts.
type PostListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// Normalize clamps page and limit to sane values, falling back to the
// listing defaults.
func (q *PostListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
}

// Pagination is the page metadata attached to post listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page metadata for a listing of total rows.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PostPage is one page of posts with its pagination metadata.
type PostPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// Post listing defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Post errors
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrNotPostOwner      = errors.New("not the owner of this post")
	ErrPostFieldsMissing = errors.New("title, details, and category are required")
	ErrEmptyPostPatch    = errors.New("at least one field (title, details, or category) is required")
)
