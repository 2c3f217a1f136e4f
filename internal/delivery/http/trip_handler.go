package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/usecase/trip"
)

// TripHandler handles the trip lifecycle requests
type TripHandler struct {
	tripService *trip.Service
	logger      logger.Logger
}

// NewTripHandler creates a new handler
func NewTripHandler(tripService *trip.Service, logger logger.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// StartTrip checks a vehicle out and opens a mutation
// POST /api/v1/trips/start
func (h *TripHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	var req trip.StartTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mutation, err := h.tripService.StartTrip(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		if errors.Is(err, domain.ErrVehicleNotAvailable) {
			respondError(w, http.StatusConflict, "Vehicle is not available")
			return
		}
		if errors.Is(err, domain.ErrDriverPhotoRequired) {
			respondError(w, http.StatusUnprocessableEntity, "Driver photo is required")
			return
		}
		if errors.Is(err, domain.ErrInvalidMutationData) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid trip data")
			return
		}
		h.logger.Error("Failed to start trip", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": req.VehicleID,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    mutation,
	})
}

// EndTrip checks a vehicle back in and completes the mutation
// POST /api/v1/trips/{id}/end
func (h *TripHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req trip.EndTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mutation, err := h.tripService.EndTrip(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrMutationNotFound) {
			respondError(w, http.StatusNotFound, "Trip not found")
			return
		}
		if errors.Is(err, domain.ErrMutationCompleted) {
			respondError(w, http.StatusConflict, "Trip is already completed")
			return
		}
		if errors.Is(err, domain.ErrEndKmBelowStart) {
			respondError(w, http.StatusUnprocessableEntity, "End kilometers cannot be below start kilometers")
			return
		}
		h.logger.Error("Failed to end trip", map[string]interface{}{
			"error":       err.Error(),
			"mutation_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    mutation,
	})
}

// GenerateNotes drafts trip notes with the text generation service.
// Generation failures degrade to a fixed fallback text, not an error.
// POST /api/v1/trips/{id}/notes
func (h *TripHandler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	notes, err := h.tripService.GenerateTripNotes(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMutationNotFound) {
			respondError(w, http.StatusNotFound, "Trip not found")
			return
		}
		h.logger.Error("Failed to generate trip notes", map[string]interface{}{
			"error":       err.Error(),
			"mutation_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]string{
			"notes": notes,
		},
	})
}
