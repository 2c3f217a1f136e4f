package sheetstore

import (
	"context"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
)

// VehicleRepo implements repository.VehicleRepository over the snapshot.
type VehicleRepo struct {
	store *Store
}

func (r *VehicleRepo) List(_ context.Context) ([]domain.Vehicle, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out, nil
}

func (r *VehicleRepo) GetByID(_ context.Context, id string) (*domain.Vehicle, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			v := s.vehicles[i]
			return &v, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *VehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.store.gateway.AddRow(ctx, sheets.SheetVehicles, vehicleToRecord(vehicle)); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	s.vehicles = append(s.vehicles, *vehicle)
	s.mu.Unlock()
	return nil
}

func (r *VehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.store.gateway.UpdateRow(ctx, sheets.SheetVehicles, vehicleToRecord(vehicle)); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == vehicle.ID {
			s.vehicles[i] = *vehicle
			return nil
		}
	}
	// Row exists remotely but not in the snapshot: another client added it.
	s.vehicles = append(s.vehicles, *vehicle)
	return nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.gateway.DeleteRow(ctx, sheets.SheetVehicles, id); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			s.vehicles = append(s.vehicles[:i], s.vehicles[i+1:]...)
			return nil
		}
	}
	return nil
}
