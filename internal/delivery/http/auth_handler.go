package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/armadatrack/armada/internal/delivery/http/middleware"
	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/usecase/directory"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	directoryService *directory.Service
	logger           logger.Logger
}

// NewAuthHandler creates a new handler
func NewAuthHandler(directoryService *directory.Service, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		directoryService: directoryService,
		logger:           logger,
	}
}

// Login authenticates a user and opens a session
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req directory.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.directoryService.Authenticate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("Failed to login user", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    response,
	})
}

// Logout destroys the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.directoryService.Logout(r.Context(), sess.Token); err != nil {
		h.logger.Error("Failed to logout", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetMe returns the current session user
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sess.User,
	})
}
