package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/usecase/maintenance"
	"github.com/armadatrack/armada/internal/usecase/trip"
)

// VehicleHandler handles fleet administration requests
type VehicleHandler struct {
	tripService *trip.Service
	logger      logger.Logger
}

// NewVehicleHandler creates a new handler
func NewVehicleHandler(tripService *trip.Service, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// ListVehicles returns the fleet
// GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.tripService.ListVehicles(r.Context())
	if err != nil {
		h.logger.Error("Failed to list vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    vehicles,
	})
}

// GetIntent tells the client which trip form to open for a vehicle
// GET /api/v1/vehicles/{id}/intent
func (h *VehicleHandler) GetIntent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	intent, err := h.tripService.SelectVehicle(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		if errors.Is(err, domain.ErrInconsistentState) {
			respondError(w, http.StatusInternalServerError, "Vehicle state is inconsistent")
			return
		}
		h.logger.Error("Failed to resolve vehicle intent", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    intent,
	})
}

// CreateVehicle registers a new vehicle
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req trip.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vehicle, err := h.tripService.CreateVehicle(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleAlreadyExists) {
			respondError(w, http.StatusConflict, "Vehicle with this plate number already exists")
			return
		}
		if errors.Is(err, domain.ErrInvalidVehicleData) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid vehicle data")
			return
		}
		h.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    vehicle,
	})
}

// DeleteVehicle removes a vehicle that is not on a trip
// DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tripService.DeleteVehicle(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		if errors.Is(err, domain.ErrVehicleInUse) {
			respondError(w, http.StatusConflict, "Vehicle is currently on a trip")
			return
		}
		h.logger.Error("Failed to delete vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": id,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Vehicle deleted",
	})
}

// acknowledgeMaintenanceRequest names the maintenance task to reset
type acknowledgeMaintenanceRequest struct {
	Kind string `json:"kind"`
}

// AcknowledgeMaintenance marks a maintenance task as done today
// POST /api/v1/vehicles/{id}/maintenance
func (h *VehicleHandler) AcknowledgeMaintenance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req acknowledgeMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind, err := domain.ParseMaintenanceKind(req.Kind)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Unknown maintenance kind")
		return
	}

	vehicle, err := h.tripService.AcknowledgeMaintenance(r.Context(), id, kind)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("Failed to acknowledge maintenance", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": id,
			"kind":       req.Kind,
		})
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    vehicle,
	})
}

// GetMaintenanceAlerts returns the currently overdue maintenance tasks
// GET /api/v1/maintenance/alerts
func (h *VehicleHandler) GetMaintenanceAlerts(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.tripService.ListVehicles(r.Context())
	if err != nil {
		h.logger.Error("Failed to list vehicles for alerts", map[string]interface{}{
			"error": err.Error(),
		})
		respondGatewayError(w, err)
		return
	}

	alerts := maintenance.ComputeAlerts(vehicles, time.Now())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    alerts,
	})
}
