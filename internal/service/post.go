package service

import (
	"context"
	"fmt"
	"strings"

	"paraverse/internal/model"
	"paraverse/internal/repository"
)

// PostService implements post CRUD, listing, and ownership checks.
type PostService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// Create validates and stores a new post for the given author.
func (s *PostService) Create(ctx context.Context, authorID int64, req *model.CreatePostRequest) (*model.Post, error) {
	title := strings.TrimSpace(req.Title)
	details := strings.TrimSpace(req.Details)
	category := strings.TrimSpace(req.Category)

	if title == "" || details == "" || category == "" {
		return nil, model.ErrPostFieldsMissing
	}

	post, err := s.repo.Create(ctx, authorID, title, details, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetByID returns a single post with its author summary.
func (s *PostService) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of posts, newest first, optionally filtered by
// category and/or a case-insensitive title/details search.
func (s *PostService) List(ctx context.Context, q model.PostListQuery) (*model.PostPage, error) {
	q.Normalize()

	posts, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &model.PostPage{
		Posts:      posts,
		Pagination: model.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// ListByAuthor returns a page of one author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64, page, limit int) (*model.PostPage, error) {
	q := model.PostListQuery{Page: page, Limit: limit}
	q.Normalize()

	posts, total, err := s.repo.ListByAuthor(ctx, authorID, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &model.PostPage{
		Posts:      posts,
		Pagination: model.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Update applies a partial edit. Only the author may edit, and at least one
// field must be present. Provided fields must not be blank.
func (s *PostService) Update(ctx context.Context, userID, postID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	if req.Empty() {
		return nil, model.ErrEmptyPostPatch
	}
	for _, field := range []*string{req.Title, req.Details, req.Category} {
		if field != nil {
			trimmed := strings.TrimSpace(*field)
			if trimmed == "" {
				return nil, model.ErrPostFieldsMissing
			}
			*field = trimmed
		}
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, model.ErrNotPostOwner
	}

	return s.repo.Update(ctx, postID, *req)
}

// Delete removes a post. Comments and likes go with it.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return model.ErrNotPostOwner
	}

	return s.repo.Delete(ctx, postID)
}

// ListCategories returns the distinct categories currently in use.
func (s *PostService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}
