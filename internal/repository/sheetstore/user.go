package sheetstore

import (
	"context"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
)

// UserRepo implements repository.UserRepository over the snapshot.
type UserRepo struct {
	store *Store
}

func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	if err := r.store.gateway.AddRow(ctx, sheets.SheetUsers, userToRecord(user)); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	s.users = append(s.users, *user)
	s.mu.Unlock()
	return nil
}

// Replace persists the user and drops everything else from the local list.
// This backs the first real user created while the synthetic bootstrap admin
// is still in place: afterwards the directory holds exactly one user and
// initial setup is over. The bootstrap admin was never persisted, so there
// is nothing to delete remotely.
func (r *UserRepo) Replace(ctx context.Context, user *domain.User) error {
	if err := r.store.gateway.AddRow(ctx, sheets.SheetUsers, userToRecord(user)); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	s.users = []domain.User{*user}
	s.initialSetup = false
	s.mu.Unlock()
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	if err := r.store.gateway.UpdateRow(ctx, sheets.SheetUsers, userToRecord(user)); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.gateway.DeleteRow(ctx, sheets.SheetUsers, id); err != nil {
		return gatewayErr(err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *UserRepo) InitialSetup() bool {
	return r.store.InitialSetup()
}
