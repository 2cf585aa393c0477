package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paraverse/internal/config"
	"paraverse/internal/httputil"
	"paraverse/internal/model"
	"paraverse/internal/service"
	"paraverse/internal/transport/http/middleware"
)

// AuthHandler groups account and session endpoints.
type AuthHandler struct {
	userService *service.UserService
	config      *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
	}
}

// setSessionCookie attaches the session token as an HttpOnly cookie so web
// clients don't touch the token from script.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidEmail),
			errors.Is(err, model.ErrInvalidUsername),
			errors.Is(err, model.ErrWeakPassword):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already taken")
		default:
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Account created successfully", httputil.Envelope{
		"user": user.Public(),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, token, maxAge, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidEmail):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, "Invalid email or password")
		default:
			httputil.WriteInternalError(w, "Failed to log in")
		}
		return
	}

	h.setSessionCookie(w, token, maxAge)
	httputil.WriteSuccess(w, http.StatusOK, "Logged in successfully", httputil.Envelope{
		"user":  user.Public(),
		"token": token,
	})
}

// ForgotPassword handles POST /auth/forgot-password. The response is the
// same whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, model.ErrInvalidEmail) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to process request")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "If that email is registered, a reset link has been sent", nil)
}

// ResetPassword handles POST /auth/reset-password/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "token")

	var req model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidResetToken), errors.Is(err, model.ErrInvalidToken):
			httputil.WriteBadRequest(w, "Invalid or expired reset token")
		case errors.Is(err, model.ErrWeakPassword):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to reset password")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Password reset successfully", nil)
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.Envelope{
		"user": user.Public(),
	})
}

// UpdateProfile handles PUT /auth/update-profile. Accepts multipart form
// data (avatar upload plus optional username) or a plain JSON body with a
// username only.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	req, err := h.parseProfileUpdate(w, r)
	if err != nil {
		return // response already written
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidUsername):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already taken")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		case errors.Is(err, model.ErrImageTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
		case errors.Is(err, model.ErrNothingToUpdate):
			httputil.WriteBadRequest(w, "Nothing to update")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Profile updated successfully", httputil.Envelope{
		"user": user.Public(),
	})
}

// parseProfileUpdate reads the update from either encoding. On error it
// writes the response itself and returns a non-nil error.
func (h *AuthHandler) parseProfileUpdate(w http.ResponseWriter, r *http.Request) (*model.UpdateProfileRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024 // allow form overhead
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			if strings.Contains(err.Error(), "request body too large") {
				httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
			} else {
				httputil.WriteBadRequest(w, "Invalid form data")
			}
			return nil, err
		}

		req := &model.UpdateProfileRequest{}
		if username := strings.TrimSpace(r.FormValue("username")); username != "" {
			req.Username = &username
		}

		file, header, err := r.FormFile("profilePicture")
		if err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(io.LimitReader(file, int64(model.MaxAvatarSizeBytes)+1))
			if readErr != nil {
				httputil.WriteBadRequest(w, "Invalid avatar upload")
				return nil, readErr
			}
			req.AvatarBytes = data
			req.AvatarContentType = header.Header.Get("Content-Type")
		} else if err != http.ErrMissingFile {
			httputil.WriteBadRequest(w, "Invalid avatar upload")
			return nil, err
		}

		return req, nil
	}

	var body struct {
		Username *string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return nil, err
	}
	return &model.UpdateProfileRequest{Username: body.Username}, nil
}

// VerifyToken handles GET /auth/verify-token. Reaching it at all means the
// auth middleware accepted the token.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Token is valid", httputil.Envelope{
		"user": user.Public(),
	})
}

// Logout handles POST /auth/logout. Clears the session cookie; the token
// itself stays valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	httputil.WriteSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// LogoutAll handles POST /auth/logout-all. Bumps the token version so every
// outstanding session stops verifying, then clears this client's cookie.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.userService.LogoutEverywhere(r.Context(), userID); err != nil {
		httputil.WriteInternalError(w, "Failed to log out")
		return
	}

	h.clearSessionCookie(w)
	httputil.WriteSuccess(w, http.StatusOK, "Logged out of all sessions", nil)
}
