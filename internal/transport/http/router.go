package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paraverse/internal/handler"
	"paraverse/internal/httputil"
	authmw "paraverse/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	LikeHandler    *handler.LikeHandler
	TokenVerifier  authmw.TokenVerifier
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	requireAuth := authmw.AuthMiddleware(cfg.TokenVerifier)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok", "service": "paraverse"})
	})

	r.Route("/auth", func(r chi.Router) {
		// Public
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
		r.Post("/reset-password/{token}", cfg.AuthHandler.ResetPassword)
		r.Post("/logout", cfg.AuthHandler.Logout)

		// Require a valid session
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", cfg.AuthHandler.Profile)
			r.Put("/update-profile", cfg.AuthHandler.UpdateProfile)
			r.Get("/verify-token", cfg.AuthHandler.VerifyToken)
			r.Post("/logout-all", cfg.AuthHandler.LogoutAll)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Public reads
		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{id}", cfg.PostHandler.Get)
		r.Get("/categories", cfg.PostHandler.Categories)
		r.Get("/posts/{postId}/comments", cfg.CommentHandler.ListByPost)
		r.Get("/comments/{id}", cfg.CommentHandler.Get)
		r.Get("/posts/{postId}/likes", cfg.LikeHandler.ListByPost)

		// Protected writes and per-user reads
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/posts", cfg.PostHandler.Create)
			r.Put("/posts/{id}", cfg.PostHandler.Update)
			r.Delete("/posts/{id}", cfg.PostHandler.Delete)
			r.Get("/my-posts", cfg.PostHandler.MyPosts)

			r.Post("/comments", cfg.CommentHandler.Create)
			r.Put("/comments/{id}", cfg.CommentHandler.Update)
			r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

			r.Post("/posts/{postId}/like", cfg.LikeHandler.Toggle)
			r.Get("/posts/{postId}/like-status", cfg.LikeHandler.Status)
			r.Get("/user/likes", cfg.LikeHandler.MyLikes)
		})
	})

	return r
}
