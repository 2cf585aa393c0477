package repository

import (
	"context"

	"paraverse/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByEmailOrUsername returns an existing user colliding with either
	// field, or ErrUserNotFound when both are free.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, username, profilePicture *string) (*model.User, error)
	// UpdatePassword overwrites the hash and bumps the token version so
	// outstanding session tokens stop verifying.
	UpdatePassword(ctx context.Context, id int64, passwordHashed string) error
	BumpTokenVersion(ctx context.Context, id int64) error
}

type PostRepository interface {
	Create(ctx context.Context, authorID int64, title, details, category string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	List(ctx context.Context, q model.PostListQuery) ([]model.Post, int, error)
	ListByAuthor(ctx context.Context, authorID int64, page, limit int) ([]model.Post, int, error)
	Update(ctx context.Context, postID int64, patch model.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, postID int64) error
	ListCategories(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, postID int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	Update(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
}

type LikeRepository interface {
	// Toggle flips the like state for one (user, post) pair. The like-row
	// write and the posts.like_count update happen in a single transaction;
	// both commit or both roll back. Returns the resulting liked state.
	Toggle(ctx context.Context, userID, postID int64) (liked bool, err error)
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	ListByPost(ctx context.Context, postID int64) ([]model.Like, error)
	ListByUser(ctx context.Context, userID int64) ([]model.LikedPost, error)
}
