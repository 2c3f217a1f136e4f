package sheetstore

import (
	"context"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
)

// MutationRepo implements repository.MutationRepository over the snapshot.
type MutationRepo struct {
	store *Store
}

func (r *MutationRepo) List(_ context.Context) ([]domain.Mutation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Mutation, len(s.mutations))
	copy(out, s.mutations)
	return out, nil
}

func (r *MutationRepo) GetByID(_ context.Context, id string) (*domain.Mutation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.mutations {
		if s.mutations[i].ID == id {
			m := s.mutations[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMutationNotFound
}

func (r *MutationRepo) OngoingForVehicle(_ context.Context, vehicleID string) (*domain.Mutation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.mutations {
		if s.mutations[i].VehicleID == vehicleID && s.mutations[i].Status == domain.MutationOngoing {
			m := s.mutations[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMutationNotFound
}

// Start writes the new mutation row, then the vehicle row, strictly in that
// order. When the vehicle write fails the remote store already holds the
// Ongoing mutation while the vehicle still reads Available; that gap is a
// property of the row-store contract (no transactions) and is logged, never
// patched up. In either failure case the snapshot stays untouched.
func (r *MutationRepo) Start(ctx context.Context, mutation *domain.Mutation, vehicle *domain.Vehicle) error {
	s := r.store

	if err := s.gateway.AddRow(ctx, sheets.SheetMutations, mutationToRecord(mutation)); err != nil {
		return gatewayErr(err)
	}

	if err := s.gateway.UpdateRow(ctx, sheets.SheetVehicles, vehicleToRecord(vehicle)); err != nil {
		s.log.Warn("Vehicle write failed after mutation write, backing store inconsistent", map[string]interface{}{
			"mutation_id": mutation.ID,
			"vehicle_id":  vehicle.ID,
			"error":       err.Error(),
		})
		return gatewayErr(err)
	}

	s.mu.Lock()
	s.mutations = append(s.mutations, *mutation)
	for i := range s.vehicles {
		if s.vehicles[i].ID == vehicle.ID {
			s.vehicles[i] = *vehicle
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Complete writes the completed mutation row, then the vehicle row. Same
// ordering and failure semantics as Start.
func (r *MutationRepo) Complete(ctx context.Context, mutation *domain.Mutation, vehicle *domain.Vehicle) error {
	s := r.store

	if err := s.gateway.UpdateRow(ctx, sheets.SheetMutations, mutationToRecord(mutation)); err != nil {
		return gatewayErr(err)
	}

	if err := s.gateway.UpdateRow(ctx, sheets.SheetVehicles, vehicleToRecord(vehicle)); err != nil {
		s.log.Warn("Vehicle write failed after mutation write, backing store inconsistent", map[string]interface{}{
			"mutation_id": mutation.ID,
			"vehicle_id":  vehicle.ID,
			"error":       err.Error(),
		})
		return gatewayErr(err)
	}

	s.mu.Lock()
	for i := range s.mutations {
		if s.mutations[i].ID == mutation.ID {
			s.mutations[i] = *mutation
			break
		}
	}
	for i := range s.vehicles {
		if s.vehicles[i].ID == vehicle.ID {
			s.vehicles[i] = *vehicle
			break
		}
	}
	s.mu.Unlock()
	return nil
}
