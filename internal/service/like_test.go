package service

import (
	"context"
	"errors"
	"testing"

	"paraverse/internal/model"
)

// mockLikeRepository keeps real toggle state per (user, post) pair so tests
// can exercise repeated toggles.
type mockLikeRepository struct {
	toggleFn func(ctx context.Context, userID, postID int64) (bool, error)

	liked map[[2]int64]bool
}

func newMockLikeRepository() *mockLikeRepository {
	return &mockLikeRepository{liked: make(map[[2]int64]bool)}
}

func (m *mockLikeRepository) Toggle(ctx context.Context, userID, postID int64) (bool, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, userID, postID)
	}
	key := [2]int64{userID, postID}
	m.liked[key] = !m.liked[key]
	return m.liked[key], nil
}

func (m *mockLikeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	return m.liked[[2]int64{userID, postID}], nil
}

func (m *mockLikeRepository) ListByPost(ctx context.Context, postID int64) ([]model.Like, error) {
	var likes []model.Like
	for key, on := range m.liked {
		if on && key[1] == postID {
			likes = append(likes, model.Like{UserID: key[0], PostID: postID})
		}
	}
	return likes, nil
}

func (m *mockLikeRepository) ListByUser(ctx context.Context, userID int64) ([]model.LikedPost, error) {
	var liked []model.LikedPost
	for key, on := range m.liked {
		if on && key[0] == userID {
			liked = append(liked, model.LikedPost{PostID: key[1]})
		}
	}
	return liked, nil
}

func TestLikeService_Toggle_FlipsState(t *testing.T) {
	mockRepo := newMockLikeRepository()
	svc := NewLikeService(mockRepo, postExists(true))

	first, err := svc.Toggle(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Liked || first.Action != model.LikeActionLiked {
		t.Errorf("first toggle = %+v, want liked", first)
	}

	second, err := svc.Toggle(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Liked || second.Action != model.LikeActionUnliked {
		t.Errorf("second toggle = %+v, want unliked", second)
	}

	// Even number of toggles always lands back on not-liked
	third, _ := svc.Toggle(context.Background(), 1, 10)
	fourth, _ := svc.Toggle(context.Background(), 1, 10)
	if !third.Liked || fourth.Liked {
		t.Error("toggling must alternate strictly between liked and unliked")
	}
}

func TestLikeService_Toggle_IndependentUsers(t *testing.T) {
	mockRepo := newMockLikeRepository()
	svc := NewLikeService(mockRepo, postExists(true))

	// Two users like the same post; one unlikes. The other's like stays.
	if _, err := svc.Toggle(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), 2, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userOne, _ := svc.Status(context.Background(), 1, 10)
	userTwo, _ := svc.Status(context.Background(), 2, 10)
	if userOne {
		t.Error("user 1 should no longer like the post")
	}
	if !userTwo {
		t.Error("user 2's like should be unaffected")
	}
}

func TestLikeService_Toggle_PostMissing(t *testing.T) {
	mockRepo := &mockLikeRepository{
		toggleFn: func(ctx context.Context, userID, postID int64) (bool, error) {
			return false, model.ErrPostNotFound
		},
	}
	svc := NewLikeService(mockRepo, postExists(false))

	_, err := svc.Toggle(context.Background(), 1, 99)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestLikeService_Toggle_RepositoryFailure(t *testing.T) {
	mockRepo := &mockLikeRepository{
		toggleFn: func(ctx context.Context, userID, postID int64) (bool, error) {
			return false, errors.New("deadlock detected")
		},
	}
	svc := NewLikeService(mockRepo, postExists(true))

	_, err := svc.Toggle(context.Background(), 1, 10)
	if !errors.Is(err, model.ErrLikeToggleFailed) {
		t.Errorf("error = %v, want %v", err, model.ErrLikeToggleFailed)
	}
}

func TestLikeService_Status_PostMissing(t *testing.T) {
	svc := NewLikeService(newMockLikeRepository(), postExists(false))

	_, err := svc.Status(context.Background(), 1, 99)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestLikeService_ListByPost_PostMissing(t *testing.T) {
	svc := NewLikeService(newMockLikeRepository(), postExists(false))

	_, err := svc.ListByPost(context.Background(), 99)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}
