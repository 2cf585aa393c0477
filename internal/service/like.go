package service

import (
	"context"
	"errors"
	"fmt"

	"paraverse/internal/model"
	"paraverse/internal/repository"
)

// LikeService implements the like toggle and like listings.
type LikeService struct {
	repo  repository.LikeRepository
	posts repository.PostRepository
}

func NewLikeService(repo repository.LikeRepository, posts repository.PostRepository) *LikeService {
	return &LikeService{repo: repo, posts: posts}
}

// Toggle flips the user's like on a post. Liking when already liked unlikes,
// and vice versa; the post's counter moves with it.
func (s *LikeService) Toggle(ctx context.Context, userID, postID int64) (*model.LikeToggleResult, error) {
	liked, err := s.repo.Toggle(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrLikeToggleFailed, err)
	}

	action := model.LikeActionUnliked
	if liked {
		action = model.LikeActionLiked
	}

	return &model.LikeToggleResult{
		PostID: postID,
		Liked:  liked,
		Action: action,
	}, nil
}

// Status reports whether the user currently likes the post.
func (s *LikeService) Status(ctx context.Context, userID, postID int64) (bool, error) {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return false, model.ErrPostNotFound
	}

	return s.repo.Exists(ctx, userID, postID)
}

// ListByPost returns who liked a post, newest first.
func (s *LikeService) ListByPost(ctx context.Context, postID int64) ([]model.Like, error) {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	return s.repo.ListByPost(ctx, postID)
}

// ListByUser returns the posts a user has liked, newest like first.
func (s *LikeService) ListByUser(ctx context.Context, userID int64) ([]model.LikedPost, error) {
	return s.repo.ListByUser(ctx, userID)
}
