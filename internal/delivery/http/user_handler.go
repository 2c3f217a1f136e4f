package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armadatrack/armada/internal/delivery/http/middleware"
	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/usecase/directory"
)

// UserHandler handles user directory requests
type UserHandler struct {
	directoryService *directory.Service
	logger           logger.Logger
}

// NewUserHandler creates a new handler
func NewUserHandler(directoryService *directory.Service, logger logger.Logger) *UserHandler {
	return &UserHandler{
		directoryService: directoryService,
		logger:           logger,
	}
}

// ListUsers returns all directory entries
// GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directoryService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    users,
	})
}

// CreateUser adds a user. The first real user replaces the bootstrap admin.
// POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req directory.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.directoryService.CreateUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooShort) {
			respondError(w, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
			return
		}
		if errors.Is(err, domain.ErrInvalidRole) || errors.Is(err, domain.ErrInvalidUserData) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid user data")
			return
		}
		h.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

// UpdateUser edits username and role
// PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req directory.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.directoryService.UpdateUser(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidRole) || errors.Is(err, domain.ErrInvalidUserData) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid user data")
			return
		}
		h.logger.Error("Failed to update user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

// changePasswordRequest carries the new password
type changePasswordRequest struct {
	Password string `json:"password"`
}

// ChangePassword sets a new password for a user
// PUT /api/v1/users/{id}/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.directoryService.ChangePassword(r.Context(), sess, id, req.Password); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, domain.ErrPasswordTooShort) {
			respondError(w, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
			return
		}
		h.logger.Error("Failed to change password", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated",
	})
}

// DeleteUser removes a directory entry. The client confirms the prompt by
// sending confirm=true; self-deletion is rejected.
// DELETE /api/v1/users/{id}?confirm=true
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("confirm") != "true" {
		respondError(w, http.StatusBadRequest, "Deletion requires confirm=true")
		return
	}

	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.directoryService.DeleteUser(r.Context(), sess, id); err != nil {
		if errors.Is(err, domain.ErrSelfDelete) {
			respondError(w, http.StatusConflict, "Cannot delete your own account")
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to delete user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted",
	})
}
