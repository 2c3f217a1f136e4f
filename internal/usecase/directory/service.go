// Package directory holds the user directory logic: authentication, user
// administration and the first-run bootstrap.
package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/pkg/session"
	"github.com/armadatrack/armada/internal/repository"
)

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication. InitialSetup tells
// the login screen to advertise the bootstrap credentials.
type LoginResponse struct {
	User         *domain.User `json:"user"`
	Token        string       `json:"token"`
	InitialSetup bool         `json:"initialSetup"`
}

// CreateUserRequest carries the add-user form fields.
type CreateUserRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// UpdateUserRequest carries the edit-user form fields. Only username and
// role are editable here; passwords change through ChangePassword.
type UpdateUserRequest struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Service implements the user directory.
type Service struct {
	userRepo repository.UserRepository
	sessions session.Store
	logger   logger.Logger
}

// NewService creates a directory Service.
func NewService(userRepo repository.UserRepository, sessions session.Store, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticate scans the directory for an exact, case-sensitive match on
// username and password. Passwords are plaintext by design of the source
// system: no hashing, no lockout, no rate limiting. A match opens a session.
func (s *Service) Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == req.Username && users[i].Password == req.Password {
			sess, err := s.sessions.Create(ctx, users[i])
			if err != nil {
				return nil, err
			}

			s.logger.Info("User logged in", map[string]interface{}{
				"user_id":  users[i].ID,
				"username": users[i].Username,
			})

			u := users[i]
			return &LoginResponse{
				User:         &u,
				Token:        sess.Token,
				InitialSetup: s.userRepo.InitialSetup(),
			}, nil
		}
	}

	s.logger.Warn("Login failed", map[string]interface{}{
		"username": req.Username,
	})
	return nil, domain.ErrInvalidCredentials
}

// Logout destroys the session.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ListUsers returns the directory.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// CreateUser adds a user. The first user created while the bootstrap admin
// is still in place replaces it instead of being appended, so the synthetic
// record never coexists with real ones.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*domain.User, error) {
	user := &domain.User{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Role:     req.Role,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if len(user.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	var err error
	if s.userRepo.InitialSetup() {
		err = s.userRepo.Replace(ctx, user)
	} else {
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
	})

	return user, nil
}

// UpdateUser overwrites username and role of an existing user.
func (s *Service) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *user
	updated.Username = strings.TrimSpace(req.Username)
	updated.Role = req.Role

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// ChangePassword overwrites the password of the target user. When the
// target is the caller's own identity the session's cached copy is
// refreshed so later requests carry the new credentials.
func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, id, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	updated := *user
	updated.Password = newPassword

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return err
	}

	if sess != nil && sess.User.ID == id {
		if err := s.sessions.Refresh(ctx, sess.Token, updated); err != nil {
			s.logger.Warn("Failed to refresh session after password change", map[string]interface{}{
				"user_id": id,
				"error":   err.Error(),
			})
		}
	}

	s.logger.Info("Password changed", map[string]interface{}{
		"user_id": id,
	})

	return nil
}

// DeleteUser removes a user. Deleting the caller's own account is always
// rejected, regardless of role.
func (s *Service) DeleteUser(ctx context.Context, sess *session.Session, id string) error {
	if sess != nil && sess.User.ID == id {
		return domain.ErrSelfDelete
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})

	return nil
}

// InitialSetup reports whether the directory still runs on the bootstrap
// admin.
func (s *Service) InitialSetup() bool {
	return s.userRepo.InitialSetup()
}
