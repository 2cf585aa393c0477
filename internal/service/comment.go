package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"paraverse/internal/model"
	"paraverse/internal/repository"
)

// CommentService implements comment CRUD under posts.
type CommentService struct {
	repo  repository.CommentRepository
	posts repository.PostRepository
}

func NewCommentService(repo repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{repo: repo, posts: posts}
}

// validateContent trims and bounds-checks comment text. The length cap is
// in characters, not bytes.
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", model.ErrContentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return "", model.ErrContentTooLong
	}
	return content, nil
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, authorID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	exists, err := s.posts.Exists(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.repo.Create(ctx, req.PostID, authorID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// GetByID returns one comment with its author and post reference.
func (s *CommentService) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByPost returns a post's comments, newest first, with the total count.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) (*model.CommentList, error) {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &model.CommentList{
		Comments: comments,
		Count:    len(comments),
	}, nil
}

// Update edits a comment's content. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, userID, commentID int64, req *model.UpdateCommentRequest) (*model.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, model.ErrNotCommentOwner
	}

	return s.repo.Update(ctx, commentID, content)
}

// Delete removes a comment. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return model.ErrNotCommentOwner
	}

	return s.repo.Delete(ctx, commentID)
}
