package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/spy-mission/apiserver/internal/services"
	"github.com/spy-mission/apiserver/internal/store"
	"github.com/spy-mission/apiserver/types"
)

// AccountHandler provides signup, login and user lookup endpoints.
type AccountHandler struct {
	userService *services.UserService
}

// NewAccountHandler constructs an AccountHandler with the provided dependencies.
func NewAccountHandler(userService *services.UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

// AccountRouter registers account routes on the given router.
func AccountRouter(r chi.Router, userService *services.UserService) {
	handler := NewAccountHandler(userService)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Get("/user/{userID}", handler.GetUser)
	r.Delete("/user/{userID}", handler.DeleteUser)
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

type UserResponse struct {
	User types.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Signup creates a new user account and returns its assigned id.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Signup(r.Context(), req.Username, req.Email, req.Password, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "User already exists")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusOK, SignupResponse{
		Message: "User created successfully",
		UserID:  user.ID,
	})
}

// Login verifies credentials and returns the user record without the hash.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user,
	})
}

// GetUser returns the public projection of a user.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

// DeleteUser removes an account and its stored avatar.
func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}
