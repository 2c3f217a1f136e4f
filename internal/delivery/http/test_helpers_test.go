package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
	"github.com/armadatrack/armada/internal/pkg/config"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/pkg/session"
	"github.com/armadatrack/armada/internal/repository/sheetstore"
	"github.com/armadatrack/armada/internal/usecase/directory"
	"github.com/armadatrack/armada/internal/usecase/report"
	"github.com/armadatrack/armada/internal/usecase/trip"
)

// The handler tests run the real services over in-memory fakes and exercise
// the full router, middleware included.

type memVehicleRepo struct {
	vehicles []domain.Vehicle
}

func (r *memVehicleRepo) List(_ context.Context) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	return out, nil
}

func (r *memVehicleRepo) GetByID(_ context.Context, id string) (*domain.Vehicle, error) {
	for i := range r.vehicles {
		if r.vehicles[i].ID == id {
			v := r.vehicles[i]
			return &v, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *memVehicleRepo) Create(_ context.Context, v *domain.Vehicle) error {
	r.vehicles = append(r.vehicles, *v)
	return nil
}

func (r *memVehicleRepo) Update(_ context.Context, v *domain.Vehicle) error {
	for i := range r.vehicles {
		if r.vehicles[i].ID == v.ID {
			r.vehicles[i] = *v
			return nil
		}
	}
	return domain.ErrVehicleNotFound
}

func (r *memVehicleRepo) Delete(_ context.Context, id string) error {
	for i := range r.vehicles {
		if r.vehicles[i].ID == id {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return nil
		}
	}
	return domain.ErrVehicleNotFound
}

type memMutationRepo struct {
	vehicles  *memVehicleRepo
	mutations []domain.Mutation
}

func (r *memMutationRepo) List(_ context.Context) ([]domain.Mutation, error) {
	out := make([]domain.Mutation, len(r.mutations))
	copy(out, r.mutations)
	return out, nil
}

func (r *memMutationRepo) GetByID(_ context.Context, id string) (*domain.Mutation, error) {
	for i := range r.mutations {
		if r.mutations[i].ID == id {
			m := r.mutations[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMutationNotFound
}

func (r *memMutationRepo) OngoingForVehicle(_ context.Context, vehicleID string) (*domain.Mutation, error) {
	for i := range r.mutations {
		if r.mutations[i].VehicleID == vehicleID && r.mutations[i].Status == domain.MutationOngoing {
			m := r.mutations[i]
			return &m, nil
		}
	}
	return nil, domain.ErrMutationNotFound
}

func (r *memMutationRepo) Start(ctx context.Context, m *domain.Mutation, v *domain.Vehicle) error {
	r.mutations = append(r.mutations, *m)
	return r.vehicles.Update(ctx, v)
}

func (r *memMutationRepo) Complete(ctx context.Context, m *domain.Mutation, v *domain.Vehicle) error {
	for i := range r.mutations {
		if r.mutations[i].ID == m.ID {
			r.mutations[i] = *m
			break
		}
	}
	return r.vehicles.Update(ctx, v)
}

type memUserRepo struct {
	users        []domain.User
	initialSetup bool
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.users = append(r.users, *u)
	return nil
}

func (r *memUserRepo) Replace(_ context.Context, u *domain.User) error {
	r.users = []domain.User{*u}
	r.initialSetup = false
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) InitialSetup() bool { return r.initialSetup }

// stubGateway backs the snapshot store used by the refresh endpoint.
type stubGateway struct{}

func (stubGateway) FetchAll(_ context.Context) (*sheets.SheetData, error) {
	return &sheets.SheetData{}, nil
}

func (stubGateway) AddRow(_ context.Context, _ string, _ any) error    { return nil }
func (stubGateway) UpdateRow(_ context.Context, _ string, _ any) error { return nil }
func (stubGateway) DeleteRow(_ context.Context, _, _ string) error     { return nil }

// fakeNotesClient returns a fixed generation result, or fails when text
// is empty.
type fakeNotesClient struct {
	text string
}

func (c *fakeNotesClient) GenerateText(_ context.Context, _ string) (string, error) {
	if c.text == "" {
		return "", context.DeadlineExceeded
	}
	return c.text, nil
}

// testEnv bundles the fakes, the session store and the assembled router.
type testEnv struct {
	handler   http.Handler
	sessions  session.Store
	vehicles  *memVehicleRepo
	mutations *memMutationRepo
	users     *memUserRepo
}

func seededVehicle() domain.Vehicle {
	service := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return domain.Vehicle{
		ID:                "v1",
		PlateNumber:       "B 1234 CD",
		Brand:             "Toyota Avanza",
		Year:              2020,
		Color:             "Hitam",
		Status:            domain.VehicleAvailable,
		LastServiceDate:   &service,
		LastOilChangeDate: &service,
		LastAccuCheckDate: &service,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	vehicles := &memVehicleRepo{vehicles: []domain.Vehicle{seededVehicle()}}
	mutations := &memMutationRepo{vehicles: vehicles}
	users := &memUserRepo{users: []domain.User{
		{ID: "u1", Username: "siti", Password: "rahasia1", Role: domain.RoleAdmin},
		{ID: "u2", Username: "joko", Password: "rahasia2", Role: domain.RoleOperator},
	}}

	log := logger.NewNoop()
	sessions := session.NewMemoryStore()

	tripService := trip.NewService(vehicles, mutations, &fakeNotesClient{text: "Catatan perjalanan."}, log)
	directoryService := directory.NewService(users, sessions, log)
	reportService := report.NewService(vehicles, mutations, "https://armada.example.com", log)

	// The refresh endpoint needs a real store; an empty gateway snapshot
	// is enough for routing tests.
	store := sheetstore.New(stubGateway{}, log)

	router := NewRouter(
		NewAuthHandler(directoryService, log),
		NewVehicleHandler(tripService, log),
		NewTripHandler(tripService, log),
		NewUserHandler(directoryService, log),
		NewReportHandler(reportService, store, log),
		sessions,
		&config.Config{},
		log,
	)

	return &testEnv{
		handler:   router.Setup(),
		sessions:  sessions,
		vehicles:  vehicles,
		mutations: mutations,
		users:     users,
	}
}

// login opens a session for the given seeded user and returns the token.
func (e *testEnv) login(t *testing.T, userID string) string {
	t.Helper()
	u, err := e.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	sess, err := e.sessions.Create(context.Background(), *u)
	require.NoError(t, err)
	return sess.Token
}

// do runs one request through the router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = bytes.NewReader([]byte(s))
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
