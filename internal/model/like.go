package model

import (
	"errors"
	"time"
)

// Like actions reported by the toggle operation.
const (
	LikeActionLiked   = "liked"
	LikeActionUnliked = "unliked"
)

// Like is one user's like on one post. At most one row exists per
// (user, post) pair, enforced by a unique constraint.
type Like struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	PostID    int64     `db:"post_id" json:"postId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Joined field for post-likes listings
	User *UserSummary `json:"user,omitempty"`
}

// LikeToggleResult reports which way a toggle flipped the state.
type LikeToggleResult struct {
	PostID int64  `json:"postId"`
	Liked  bool   `json:"liked"`
	Action string `json:"action"`
}

// LikedPost is one entry of a user's liked-posts listing.
type LikedPost struct {
	ID        int64       `db:"id" json:"id"`
	PostID    int64       `db:"post_id" json:"postId"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Post      PostSummary `json:"post"`
}

// Like errors
var (
	// ErrLikeToggleFailed is returned when the like-row/counter pair could
	// not be committed as one unit. No partial state is left behind.
	ErrLikeToggleFailed = errors.New("failed to toggle like")
)
