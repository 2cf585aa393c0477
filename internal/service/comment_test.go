package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"paraverse/internal/model"
)

type mockCommentRepository struct {
	createFn     func(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error)
	getByIDFn    func(ctx context.Context, commentID int64) (*model.Comment, error)
	listByPostFn func(ctx context.Context, postID int64) ([]model.Comment, error)
	updateFn     func(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	deleteFn     func(ctx context.Context, commentID int64) error

	createCalls []string
	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	m.createCalls = append(m.createCalls, content)
	if m.createFn != nil {
		return m.createFn(ctx, postID, authorID, content)
	}
	return &model.Comment{ID: 1, PostID: postID, AuthorID: authorID, Content: content}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if m.listByPostFn != nil {
		return m.listByPostFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, commentID, content)
	}
	return &model.Comment{ID: commentID, Content: content}, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, commentID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func postExists(exists bool) *mockPostRepository {
	return &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return exists, nil
		},
	}
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCommentService_Create_ContentBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", model.ErrContentRequired},
		{"whitespace only", "   \n\t ", model.ErrContentRequired},
		{"single character", "x", nil},
		{"exactly max length", strings.Repeat("a", model.MaxCommentLength), nil},
		{"one over max length", strings.Repeat("a", model.MaxCommentLength+1), model.ErrContentTooLong},
		// The cap is in characters: multibyte runes within the limit must
		// pass even though their byte length exceeds it.
		{"multibyte within limit", strings.Repeat("é", 600), nil},
		{"multibyte exactly max length", strings.Repeat("日", model.MaxCommentLength), nil},
		{"multibyte one over max length", strings.Repeat("日", model.MaxCommentLength+1), model.ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockCommentRepository{}
			svc := NewCommentService(mockRepo, postExists(true))

			req := &model.CreateCommentRequest{PostID: 1, Content: tt.content}
			comment, err := svc.Create(context.Background(), 1, req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(mockRepo.createCalls) != 0 {
					t.Error("Create should not reach the repository for invalid content")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if comment == nil {
				t.Fatal("expected comment, got nil")
			}
		})
	}
}

func TestCommentService_Create_TrimsBeforeLengthCheck(t *testing.T) {
	// Padding that pushes the raw length over the cap must not matter once
	// trimmed.
	content := "  " + strings.Repeat("a", model.MaxCommentLength) + "  "

	mockRepo := &mockCommentRepository{}
	svc := NewCommentService(mockRepo, postExists(true))

	_, err := svc.Create(context.Background(), 1, &model.CreateCommentRequest{PostID: 1, Content: content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mockRepo.createCalls[0]; len(got) != model.MaxCommentLength {
		t.Errorf("stored content length = %d, want %d", len(got), model.MaxCommentLength)
	}
}

func TestCommentService_Create_PostMissing(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, postExists(false))

	_, err := svc.Create(context.Background(), 1, &model.CreateCommentRequest{PostID: 99, Content: "hello"})
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestCommentService_ListByPost(t *testing.T) {
	mockRepo := &mockCommentRepository{
		listByPostFn: func(ctx context.Context, postID int64) ([]model.Comment, error) {
			return []model.Comment{{ID: 2}, {ID: 1}}, nil
		},
	}
	svc := NewCommentService(mockRepo, postExists(true))

	list, err := svc.ListByPost(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Count != 2 || len(list.Comments) != 2 {
		t.Errorf("count = %d with %d comments, want 2/2", list.Count, len(list.Comments))
	}
}

func TestCommentService_ListByPost_PostMissing(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, postExists(false))

	_, err := svc.ListByPost(context.Background(), 99)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

// =============================================================================
// UPDATE / DELETE TESTS
// =============================================================================

func TestCommentService_Update_Ownership(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		getFn   func(ctx context.Context, commentID int64) (*model.Comment, error)
		wantErr error
	}{
		{
			name:   "owner can edit",
			userID: 1,
			getFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, AuthorID: 1, Content: "old"}, nil
			},
		},
		{
			name:   "non-owner forbidden",
			userID: 2,
			getFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, AuthorID: 1, Content: "old"}, nil
			},
			wantErr: model.ErrNotCommentOwner,
		},
		{
			name:   "missing comment",
			userID: 1,
			getFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return nil, model.ErrCommentNotFound
			},
			wantErr: model.ErrCommentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockCommentRepository{getByIDFn: tt.getFn}
			svc := NewCommentService(mockRepo, postExists(true))

			_, err := svc.Update(context.Background(), tt.userID, 5, &model.UpdateCommentRequest{Content: "new"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCommentService_Delete_NotOwner(t *testing.T) {
	mockRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, AuthorID: 1}, nil
		},
	}
	svc := NewCommentService(mockRepo, postExists(true))

	err := svc.Delete(context.Background(), 2, 5)
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
	if len(mockRepo.deleteCalls) != 0 {
		t.Error("Delete should not reach the repository for a non-owner")
	}
}
