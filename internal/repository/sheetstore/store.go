// Package sheetstore implements the repository interfaces on top of the
// sheet gateway. The full data set is loaded once into an in-memory
// snapshot; reads are served from it and every write goes through the
// gateway before the snapshot is touched.
package sheetstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
	"github.com/armadatrack/armada/internal/pkg/logger"
)

// Bootstrap identity synthesized when the remote store has no users yet.
// The record lives only in the snapshot until the first real user is
// created; the login screen advertises these credentials while the
// initial-setup flag is raised.
const (
	BootstrapAdminID       = "u0"
	BootstrapAdminUsername = "admin"
	BootstrapAdminPassword = "password"
)

// Store holds the snapshot of the backing sheet and the gateway handle.
// All snapshot access is guarded by mu. Entities are stored by value and
// returned as copies so callers can never mutate the snapshot directly.
type Store struct {
	gateway sheets.Gateway
	log     logger.Logger

	mu           sync.RWMutex
	vehicles     []domain.Vehicle
	mutations    []domain.Mutation
	users        []domain.User
	initialSetup bool
}

// New creates an empty Store. Call Load before serving requests.
func New(gateway sheets.Gateway, log logger.Logger) *Store {
	return &Store{gateway: gateway, log: log}
}

// Load fetches the full snapshot from the gateway, replacing local state.
// An empty user collection triggers the first-run bootstrap: one synthetic
// admin is placed in the snapshot (never persisted) and the initial-setup
// flag is raised.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.gateway.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	vehicles := make([]domain.Vehicle, 0, len(data.Vehicles))
	for _, rec := range data.Vehicles {
		vehicles = append(vehicles, vehicleFromRecord(rec))
	}

	mutations := make([]domain.Mutation, 0, len(data.Mutations))
	for _, rec := range data.Mutations {
		mutations = append(mutations, mutationFromRecord(rec))
	}

	users := make([]domain.User, 0, len(data.Users))
	for _, rec := range data.Users {
		users = append(users, userFromRecord(rec))
	}

	initialSetup := false
	if len(users) == 0 {
		users = []domain.User{{
			ID:       BootstrapAdminID,
			Username: BootstrapAdminUsername,
			Password: BootstrapAdminPassword,
			Role:     domain.RoleAdmin,
		}}
		initialSetup = true
		s.log.Info("No users in backing store, bootstrap admin created", map[string]interface{}{
			"username": BootstrapAdminUsername,
		})
	}

	s.mu.Lock()
	s.vehicles = vehicles
	s.mutations = mutations
	s.users = users
	s.initialSetup = initialSetup
	s.mu.Unlock()

	s.log.Info("Snapshot loaded", map[string]interface{}{
		"vehicles":  len(vehicles),
		"mutations": len(mutations),
		"users":     len(users),
	})

	return nil
}

// Refresh re-runs Load. Exposed for the admin refresh endpoint.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// InitialSetup reports whether the snapshot still holds the synthetic
// bootstrap admin.
func (s *Store) InitialSetup() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialSetup
}

// Vehicles returns repository access to the vehicle collection.
func (s *Store) Vehicles() *VehicleRepo { return &VehicleRepo{store: s} }

// Mutations returns repository access to the mutation collection.
func (s *Store) Mutations() *MutationRepo { return &MutationRepo{store: s} }

// Users returns repository access to the user collection.
func (s *Store) Users() *UserRepo { return &UserRepo{store: s} }

// gatewayErr wraps a gateway failure into the domain error every layer
// matches against.
func gatewayErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrGateway, err)
}
