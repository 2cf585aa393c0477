package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"postId"`
	AuthorID  int64     `db:"author_id" json:"authorId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined fields (not in the post_comments table)
	Author *UserSummary    `json:"author,omitempty"`
	Post   *CommentPostRef `json:"post,omitempty"`
}

// CommentPostRef is the parent-post summary attached to a single comment.
type CommentPostRef struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	PostID  int64  `json:"postId"`
	Content string `json:"content"`
}

// UpdateCommentRequest is the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentList is the comments of one post with their total count.
type CommentList struct {
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

// MaxCommentLength bounds comment content after trimming.
const MaxCommentLength = 1000

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content too long")
)
