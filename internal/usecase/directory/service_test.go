package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/pkg/session"
)

// MockUserRepo mocks repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Replace(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) InitialSetup() bool {
	args := m.Called()
	return args.Bool(0)
}

func adminUser() domain.User {
	return domain.User{
		ID:       "u1",
		Username: "siti",
		Password: "rahasia1",
		Role:     domain.RoleAdmin,
	}
}

func newTestService(ur *MockUserRepo) (*Service, session.Store) {
	sessions := session.NewMemoryStore()
	return NewService(ur, sessions, logger.NewNoop()), sessions
}

func TestService_Authenticate(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		mockSetup func(*MockUserRepo)
		wantErr   error
	}{
		{
			name:     "exact match opens a session",
			username: "siti",
			password: "rahasia1",
			mockSetup: func(ur *MockUserRepo) {
				ur.On("List", mock.Anything).Return([]domain.User{adminUser()}, nil)
				ur.On("InitialSetup").Return(false)
			},
		},
		{
			name:     "wrong password",
			username: "siti",
			password: "salah",
			mockSetup: func(ur *MockUserRepo) {
				ur.On("List", mock.Anything).Return([]domain.User{adminUser()}, nil)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "username match is case sensitive",
			username: "Siti",
			password: "rahasia1",
			mockSetup: func(ur *MockUserRepo) {
				ur.On("List", mock.Anything).Return([]domain.User{adminUser()}, nil)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown username",
			username: "joko",
			password: "rahasia1",
			mockSetup: func(ur *MockUserRepo) {
				ur.On("List", mock.Anything).Return([]domain.User{adminUser()}, nil)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ur := new(MockUserRepo)
			tt.mockSetup(ur)

			svc, sessions := newTestService(ur)
			resp, err := svc.Authenticate(context.Background(), &LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, "siti", resp.User.Username)

			// The token resolves to a live session.
			sess, err := sessions.Get(context.Background(), resp.Token)
			assert.NoError(t, err)
			assert.Equal(t, "u1", sess.User.ID)
		})
	}
}

func TestService_Authenticate_BootstrapAdmin(t *testing.T) {
	ur := new(MockUserRepo)
	ur.On("List", mock.Anything).Return([]domain.User{{
		ID:       "u0",
		Username: "admin",
		Password: "password",
		Role:     domain.RoleAdmin,
	}}, nil)
	ur.On("InitialSetup").Return(true)

	svc, _ := newTestService(ur)
	resp, err := svc.Authenticate(context.Background(), &LoginRequest{
		Username: "admin",
		Password: "password",
	})

	assert.NoError(t, err)
	assert.True(t, resp.InitialSetup)
}

func TestService_Logout(t *testing.T) {
	ur := new(MockUserRepo)
	ur.On("List", mock.Anything).Return([]domain.User{adminUser()}, nil)
	ur.On("InitialSetup").Return(false)

	svc, sessions := newTestService(ur)
	resp, err := svc.Authenticate(context.Background(), &LoginRequest{
		Username: "siti",
		Password: "rahasia1",
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), resp.Token))

	_, err = sessions.Get(context.Background(), resp.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Logging out twice is a no-op.
	assert.NoError(t, svc.Logout(context.Background(), resp.Token))
}

func TestService_CreateUser(t *testing.T) {
	t.Run("first real user replaces the bootstrap admin", func(t *testing.T) {
		ur := new(MockUserRepo)
		ur.On("InitialSetup").Return(true)
		ur.On("Replace", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		svc, _ := newTestService(ur)
		user, err := svc.CreateUser(context.Background(), &CreateUserRequest{
			Username: "siti",
			Password: "rahasia1",
			Role:     domain.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.NotEqual(t, "u0", user.ID)
		ur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		ur.AssertExpectations(t)
	})

	t.Run("later users are appended", func(t *testing.T) {
		ur := new(MockUserRepo)
		ur.On("InitialSetup").Return(false)
		ur.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		svc, _ := newTestService(ur)
		_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
			Username: "joko",
			Password: "rahasia2",
			Role:     domain.RoleOperator,
		})

		assert.NoError(t, err)
		ur.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		ur := new(MockUserRepo)

		svc, _ := newTestService(ur)
		_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
			Username: "joko",
			Password: "abc",
			Role:     domain.RoleOperator,
		})

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		ur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		ur.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		ur := new(MockUserRepo)

		svc, _ := newTestService(ur)
		_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
			Username: "joko",
			Password: "rahasia2",
			Role:     domain.Role("Supervisor"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("own password change refreshes the session", func(t *testing.T) {
		ur := new(MockUserRepo)
		u := adminUser()
		ur.On("GetByID", mock.Anything, "u1").Return(&u, nil)
		ur.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		svc, sessions := newTestService(ur)
		sess, err := sessions.Create(context.Background(), u)
		assert.NoError(t, err)

		err = svc.ChangePassword(context.Background(), sess, "u1", "barubanget")
		assert.NoError(t, err)

		refreshed, err := sessions.Get(context.Background(), sess.Token)
		assert.NoError(t, err)
		assert.Equal(t, "barubanget", refreshed.User.Password)
	})

	t.Run("short password is rejected before any lookup", func(t *testing.T) {
		ur := new(MockUserRepo)

		svc, _ := newTestService(ur)
		err := svc.ChangePassword(context.Background(), nil, "u1", "abc")

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		ur.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestService_DeleteUser(t *testing.T) {
	t.Run("self deletion is rejected", func(t *testing.T) {
		ur := new(MockUserRepo)

		svc, sessions := newTestService(ur)
		sess, err := sessions.Create(context.Background(), adminUser())
		assert.NoError(t, err)

		err = svc.DeleteUser(context.Background(), sess, "u1")

		assert.ErrorIs(t, err, domain.ErrSelfDelete)
		ur.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes another user", func(t *testing.T) {
		ur := new(MockUserRepo)
		other := domain.User{ID: "u2", Username: "joko", Password: "rahasia2", Role: domain.RoleOperator}
		ur.On("GetByID", mock.Anything, "u2").Return(&other, nil)
		ur.On("Delete", mock.Anything, "u2").Return(nil)

		svc, sessions := newTestService(ur)
		sess, err := sessions.Create(context.Background(), adminUser())
		assert.NoError(t, err)

		assert.NoError(t, svc.DeleteUser(context.Background(), sess, "u2"))
		ur.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		ur := new(MockUserRepo)
		ur.On("GetByID", mock.Anything, "u9").Return(nil, domain.ErrUserNotFound)

		svc, sessions := newTestService(ur)
		sess, err := sessions.Create(context.Background(), adminUser())
		assert.NoError(t, err)

		err = svc.DeleteUser(context.Background(), sess, "u9")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
