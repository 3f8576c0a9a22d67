package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type signinRequest struct {
	Identifier string `json:"identifier"` // email or mobile
	Password   string `json:"password"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name and password are required")
		return
	}
	if req.Email == "" && req.Mobile == "" {
		respondError(w, http.StatusBadRequest, "Email or mobile is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := h.users.Signup(r.Context(), req.Name, req.Email, req.Mobile, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			respondError(w, http.StatusConflict, "A user with this email or mobile already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Account created but signin failed, please sign in")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Account created successfully",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// Signin handles POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	user, err := h.users.Signin(r.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, errs.ErrAccountInactive):
			respondError(w, http.StatusForbidden, "Account is not active")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Signed in successfully",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	services.InvalidateSession(middleware.BearerToken(r))
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Signed out"})
}
