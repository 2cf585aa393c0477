package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"paraverse/internal/httputil"
	"paraverse/internal/model"
	"paraverse/internal/service"
	"paraverse/internal/transport/http/middleware"
)

// PostHandler groups post CRUD and listing endpoints.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// parseIDParam reads a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrPostFieldsMissing) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Post created successfully", httputil.Envelope{
		"post": post,
	})
}

// List handles GET /api/posts with ?page=&limit=&category=&search=.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := model.PostListQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}

	page, err := h.postService.List(r.Context(), q)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to fetch post")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"post": post,
	})
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPostPatch), errors.Is(err, model.ErrPostFieldsMissing):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only edit your own posts")
		default:
			httputil.WriteInternalError(w, "Failed to update post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Post updated successfully", httputil.Envelope{
		"post": post,
	})
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Post deleted successfully", nil)
}

// MyPosts handles GET /api/my-posts.
func (h *PostHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.postService.ListByAuthor(r.Context(), userID, page, limit)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"posts":      result.Posts,
		"pagination": result.Pagination,
	})
}

// Categories handles GET /api/categories.
func (h *PostHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.postService.ListCategories(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list categories")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"categories": categories,
	})
}
