package handler

import (
	"errors"
	"net/http"

	"paraverse/internal/httputil"
	"paraverse/internal/model"
	"paraverse/internal/service"
	"paraverse/internal/transport/http/middleware"
)

// LikeHandler groups like toggle and listing endpoints.
type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle handles POST /api/posts/{postId}/like.
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	result, err := h.likeService.Toggle(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	message := "Post liked"
	if !result.Liked {
		message = "Post unliked"
	}

	httputil.WriteSuccess(w, http.StatusOK, message, httputil.Envelope{
		"liked":  result.Liked,
		"action": result.Action,
		"postId": result.PostID,
	})
}

// Status handles GET /api/posts/{postId}/like-status.
func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	liked, err := h.likeService.Status(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to fetch like status")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"liked": liked,
	})
}

// ListByPost handles GET /api/posts/{postId}/likes.
func (h *LikeHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	likes, err := h.likeService.ListByPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to list likes")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"likes": likes,
		"count": len(likes),
	})
}

// MyLikes handles GET /api/user/likes.
func (h *LikeHandler) MyLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	likes, err := h.likeService.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list liked posts")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"likedPosts": likes,
		"count":      len(likes),
	})
}
