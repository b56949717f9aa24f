// ABOUTME: User registration, login, and profile handlers
// ABOUTME: Registration validates inputs, hashes the password, and issues a first credential

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inotebook/notesd/internal/auth"
	"github.com/inotebook/notesd/internal/httputil"
	"github.com/inotebook/notesd/internal/store"
	"github.com/inotebook/notesd/internal/validate"
)

// RegisterRequest is the JSON request body for POST /api/v1/users/register.
type RegisterRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Avatar    string `json:"avatar,omitempty"`
}

// LoginRequest is the JSON request body for POST /api/v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the `_user` fragment of auth responses.
type userPayload struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func userPayloadFromRecord(u *store.User) userPayload {
	return userPayload{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

// validateRegistration returns an error message for the first failing rule,
// or empty when the payload is acceptable.
func validateRegistration(req *RegisterRequest) string {
	switch {
	case req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" || req.Password2 == "":
		return "All fields are required"
	case !validate.Name(req.Name):
		return "Invalid name"
	case !validate.Username(req.Username):
		return "Invalid username"
	case !validate.Email(req.Email):
		return "Invalid email"
	case !validate.Password(req.Password):
		return "Invalid password"
	case req.Password != req.Password2:
		return "Passwords do not match"
	case req.Avatar != "" && !validate.ImageURL(req.Avatar):
		return "Invalid avatar URL"
	}
	return ""
}

// handleRegister handles POST /api/v1/users/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if msg := validateRegistration(&req); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = store.DefaultAvatar
	}

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Avatar:       avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) || errors.Is(err, store.ErrUsernameTaken) {
			httputil.WriteError(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.Error("failed to create user", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := s.codec.Issue(user.ID, auth.TokenTTL)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "User created successfully", map[string]any{
		"_user":  userPayloadFromRecord(user),
		"_token": token,
	})
}

// handleLogin handles POST /api/v1/users/login.
// Unknown email and wrong password produce the same response, and the
// unknown-email path burns a dummy bcrypt compare to keep timing uniform.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.CompareDummy(req.Password)
			httputil.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("failed to look up user", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.codec.Issue(user.ID, auth.TokenTTL)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"_user":  userPayloadFromRecord(user),
		"_token": token,
	})
}

// handleMyProfile handles GET /api/v1/users/me.
func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	ac := auth.MustFromContext(r.Context())
	p := ac.Principal

	httputil.WriteSuccess(w, http.StatusOK, "User profile retrieved successfully", map[string]any{
		"_user": userPayload{
			ID:       p.ID,
			Name:     p.Name,
			Username: p.Username,
			Email:    p.Email,
			Avatar:   p.Avatar,
		},
		"_token": ac.Token,
	})
}
