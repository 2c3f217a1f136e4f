// Package trip holds the trip lifecycle logic: a two-state machine per
// vehicle (Tersedia ⇄ Dalam Perjalanan) with the mutation record carrying
// the matching Berlangsung/Selesai sub-state.
package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/genai"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/repository"
)

// NotesFallback is returned whenever note generation fails for any reason.
// Note generation is an auxiliary feature and must never block a trip.
const NotesFallback = "Gagal membuat catatan. Silakan periksa koneksi atau kunci API Anda."

// Intent actions returned by SelectVehicle.
const (
	IntentStartTrip = "start-trip"
	IntentEndTrip   = "end-trip"
)

// Intent tells the caller which trip form to open for a vehicle.
// Mutation is set only for the end-trip intent.
type Intent struct {
	Action   string           `json:"action"`
	Vehicle  *domain.Vehicle  `json:"vehicle"`
	Mutation *domain.Mutation `json:"mutation,omitempty"`
}

// StartTripRequest carries the fields of the start-trip form.
type StartTripRequest struct {
	VehicleID   string `json:"vehicleId"`
	Driver      string `json:"driver"`
	Destination string `json:"destination"`
	StartKm     int    `json:"startKm"`
	DriverPhoto string `json:"driverPhoto"`
}

// EndTripRequest carries the fields of the end-trip form.
type EndTripRequest struct {
	EndKm int    `json:"endKm"`
	Notes string `json:"notes"`
}

// CreateVehicleRequest carries the fields of the add-vehicle form. The three
// maintenance dates are supplied at creation.
type CreateVehicleRequest struct {
	PlateNumber       string     `json:"plateNumber"`
	Brand             string     `json:"brand"`
	Year              int        `json:"year"`
	Color             string     `json:"color"`
	LastServiceDate   *time.Time `json:"lastServiceDate"`
	LastOilChangeDate *time.Time `json:"lastOilChangeDate"`
	LastAccuCheckDate *time.Time `json:"lastAccuCheckDate"`
}

// Service implements the trip lifecycle and vehicle administration.
type Service struct {
	vehicleRepo  repository.VehicleRepository
	mutationRepo repository.MutationRepository
	notesClient  genai.Client
	logger       logger.Logger
	now          func() time.Time
}

// NewService creates a trip Service.
func NewService(
	vehicleRepo repository.VehicleRepository,
	mutationRepo repository.MutationRepository,
	notesClient genai.Client,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo:  vehicleRepo,
		mutationRepo: mutationRepo,
		notesClient:  notesClient,
		logger:       logger,
		now:          time.Now,
	}
}

// ListVehicles returns all vehicles.
func (s *Service) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}

// GetMutation returns one trip record by id.
func (s *Service) GetMutation(ctx context.Context, id string) (*domain.Mutation, error) {
	return s.mutationRepo.GetByID(ctx, id)
}

// SelectVehicle routes a vehicle tap to the matching trip intent. An
// Available vehicle routes to the start-trip form; an in-use vehicle routes
// to the end-trip form together with its unique Ongoing mutation. A vehicle
// marked in-use with no Ongoing mutation is a data defect, not a user error.
func (s *Service) SelectVehicle(ctx context.Context, vehicleID string) (*Intent, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if vehicle.IsAvailable() {
		return &Intent{Action: IntentStartTrip, Vehicle: vehicle}, nil
	}

	mutation, err := s.mutationRepo.OngoingForVehicle(ctx, vehicle.ID)
	if err != nil {
		if err == domain.ErrMutationNotFound {
			s.logger.Error("Vehicle marked in use without ongoing mutation", map[string]interface{}{
				"vehicle_id": vehicle.ID,
			})
			return nil, domain.ErrInconsistentState
		}
		return nil, err
	}

	return &Intent{Action: IntentEndTrip, Vehicle: vehicle, Mutation: mutation}, nil
}

// StartTrip checks the vehicle out: it creates an Ongoing mutation and
// flips the vehicle to in-use. Validation happens before any persistence
// call; on a persistence failure nothing is applied locally and the error
// is surfaced without retry.
func (s *Service) StartTrip(ctx context.Context, req *StartTripRequest) (*domain.Mutation, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if !vehicle.IsAvailable() {
		return nil, domain.ErrVehicleNotAvailable
	}

	mutation := &domain.Mutation{
		ID:          uuid.NewString(),
		VehicleID:   vehicle.ID,
		Driver:      strings.TrimSpace(req.Driver),
		Destination: strings.TrimSpace(req.Destination),
		StartTime:   s.now(),
		StartKm:     req.StartKm,
		DriverPhoto: req.DriverPhoto,
		Status:      domain.MutationOngoing,
	}

	if err := mutation.Validate(); err != nil {
		return nil, err
	}

	updated := *vehicle
	updated.Status = domain.VehicleInUse

	if err := s.mutationRepo.Start(ctx, mutation, &updated); err != nil {
		s.logger.Error("Failed to start trip", map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Trip started", map[string]interface{}{
		"mutation_id": mutation.ID,
		"vehicle_id":  vehicle.ID,
		"driver":      mutation.Driver,
	})

	return mutation, nil
}

// EndTrip checks the vehicle back in: the mutation gains its end reading and
// transitions to Selesai, the vehicle returns to Tersedia. An end reading
// below the start reading is rejected outright, nothing is touched.
func (s *Service) EndTrip(ctx context.Context, mutationID string, req *EndTripRequest) (*domain.Mutation, error) {
	mutation, err := s.mutationRepo.GetByID(ctx, mutationID)
	if err != nil {
		return nil, err
	}

	if !mutation.IsOngoing() {
		return nil, domain.ErrMutationCompleted
	}

	if req.EndKm < mutation.StartKm {
		return nil, domain.ErrEndKmBelowStart
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, mutation.VehicleID)
	if err != nil {
		return nil, err
	}

	completed := *mutation
	completed.Complete(req.EndKm, req.Notes, s.now())

	updated := *vehicle
	updated.Status = domain.VehicleAvailable

	if err := s.mutationRepo.Complete(ctx, &completed, &updated); err != nil {
		s.logger.Error("Failed to end trip", map[string]interface{}{
			"mutation_id": mutation.ID,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Trip completed", map[string]interface{}{
		"mutation_id": completed.ID,
		"vehicle_id":  vehicle.ID,
		"distance":    *completed.Distance,
	})

	return &completed, nil
}

// AcknowledgeMaintenance stamps the given maintenance kind with the current
// time and persists the vehicle. Status is untouched; acknowledging
// maintenance on an in-use vehicle is allowed.
func (s *Service) AcknowledgeMaintenance(ctx context.Context, vehicleID string, kind domain.MaintenanceKind) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	updated := *vehicle
	updated.SetMaintenanceDate(kind, s.now())

	if err := s.vehicleRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance acknowledged", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"kind":       string(kind),
	})

	return &updated, nil
}

// CreateVehicle registers a new vehicle, Available, with its initial
// maintenance dates.
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{
		ID:                uuid.NewString(),
		PlateNumber:       domain.NormalizePlateNumber(req.PlateNumber),
		Brand:             strings.TrimSpace(req.Brand),
		Year:              req.Year,
		Color:             strings.TrimSpace(req.Color),
		Status:            domain.VehicleAvailable,
		LastServiceDate:   req.LastServiceDate,
		LastOilChangeDate: req.LastOilChangeDate,
		LastAccuCheckDate: req.LastAccuCheckDate,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range existing {
		if v.PlateNumber == vehicle.PlateNumber {
			return nil, domain.ErrVehicleAlreadyExists
		}
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Vehicle created", map[string]interface{}{
		"vehicle_id":   vehicle.ID,
		"plate_number": vehicle.PlateNumber,
	})

	return vehicle, nil
}

// DeleteVehicle removes a vehicle. Only an Available vehicle may go: the
// precondition guarantees no Ongoing mutation ever dangles.
func (s *Service) DeleteVehicle(ctx context.Context, id string) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !vehicle.IsAvailable() {
		return domain.ErrVehicleInUse
	}

	return s.vehicleRepo.Delete(ctx, id)
}

// GenerateTripNotes asks the text-generation collaborator for a notes
// template prefill for an ongoing trip. Generation failures degrade to a
// fixed fallback string; this method reports an error only when the
// mutation or its vehicle cannot be found at all.
func (s *Service) GenerateTripNotes(ctx context.Context, mutationID string) (string, error) {
	mutation, err := s.mutationRepo.GetByID(ctx, mutationID)
	if err != nil {
		return "", err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, mutation.VehicleID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Buatkan ringkasan dan catatan singkat untuk perjalanan kendaraan dengan detail berikut. Gunakan Bahasa Indonesia.
Kendaraan: %s (%s)
Pengemudi: %s
Tujuan: %s
Waktu Mulai: %s
KM Awal: %d
Perjalanan ini akan berakhir. Buatkan template untuk kolom catatan pada log perjalanan. Sertakan placeholder untuk isu yang mungkin ditemui atau kejadian penting selama perjalanan (contoh: [Kondisi Ban], [Performa Mesin], [Catatan Lainnya]). Jaga agar tetap profesional dan ringkas.`,
		vehicle.Brand, vehicle.PlateNumber, mutation.Driver, mutation.Destination,
		mutation.StartTime.Format("02/01/2006 15:04"), mutation.StartKm)

	text, err := s.notesClient.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("Note generation failed, using fallback", map[string]interface{}{
			"mutation_id": mutation.ID,
			"error":       err.Error(),
		})
		return NotesFallback, nil
	}

	return text, nil
}
