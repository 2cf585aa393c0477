package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"paraverse/internal/httputil"
	"paraverse/internal/model"
	"paraverse/internal/service"
	"paraverse/internal/transport/http/middleware"
)

// CommentHandler groups comment CRUD endpoints.
type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /api/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired), errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Comment created successfully", httputil.Envelope{
		"comment": comment,
	})
}

// Get handles GET /api/comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.GetByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to fetch comment")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"comment": comment,
	})
}

// ListByPost handles GET /api/posts/{postId}/comments.
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	list, err := h.commentService.ListByPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to list comments")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"comments": list.Comments,
		"count":    list.Count,
	})
}

// Update handles PUT /api/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req model.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), userID, commentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired), errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only edit your own comments")
		default:
			httputil.WriteInternalError(w, "Failed to update comment")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Comment updated successfully", httputil.Envelope{
		"comment": comment,
	})
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Comment deleted successfully", nil)
}
