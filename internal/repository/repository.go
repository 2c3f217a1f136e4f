package repository

import (
	"context"

	"github.com/armadatrack/armada/internal/domain"
)

// Repositories are backed by the row-store gateway plus an in-memory
// snapshot. Reads serve the snapshot; writes go to the gateway first and the
// snapshot is only updated once the gateway call succeeds. There is no retry
// and no rollback: a failed write leaves local state exactly as it was.

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// List returns all vehicles in sheet order.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// GetByID returns one vehicle. domain.ErrVehicleNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// Create appends a new vehicle row.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// Update overwrites an existing vehicle row.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// Delete removes a vehicle row. The caller guarantees the vehicle is
	// Available; deletion of an in-use vehicle is rejected upstream.
	Delete(ctx context.Context, id string) error
}

// MutationRepository defines the persistence operations for trip records.
// Mutations are never deleted; there is no Delete.
type MutationRepository interface {
	// List returns all mutations in sheet order.
	List(ctx context.Context) ([]domain.Mutation, error)

	// GetByID returns one mutation. domain.ErrMutationNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.Mutation, error)

	// OngoingForVehicle returns the unique Ongoing mutation referencing the
	// vehicle, or domain.ErrMutationNotFound when there is none.
	OngoingForVehicle(ctx context.Context, vehicleID string) (*domain.Mutation, error)

	// Start commits a trip start: the new mutation row is written first,
	// then the vehicle row with its InUse status, strictly in that order.
	// When the second write fails the backing store is left inconsistent
	// and local state untouched; the gap is logged, not reconciled.
	Start(ctx context.Context, mutation *domain.Mutation, vehicle *domain.Vehicle) error

	// Complete commits a trip end: the completed mutation row first, then
	// the vehicle row back to Available. Same ordering and failure
	// semantics as Start.
	Complete(ctx context.Context, mutation *domain.Mutation, vehicle *domain.Vehicle) error
}

// UserRepository defines the persistence operations for directory users.
type UserRepository interface {
	// List returns all users in sheet order. During initial setup the list
	// contains only the synthetic bootstrap admin.
	List(ctx context.Context) ([]domain.User, error)

	// GetByID returns one user. domain.ErrUserNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// Create appends a new user row.
	Create(ctx context.Context, user *domain.User) error

	// Replace persists the user and makes it the only entry in the
	// directory, dropping the synthetic bootstrap admin. Only meaningful
	// while InitialSetup reports true.
	Replace(ctx context.Context, user *domain.User) error

	// Update overwrites an existing user row.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user row.
	Delete(ctx context.Context, id string) error

	// InitialSetup reports whether the directory still holds the
	// synthetic bootstrap admin instead of persisted users.
	InitialSetup() bool
}
