package sheetstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
	"github.com/armadatrack/armada/internal/pkg/logger"
)

// call records one gateway write for order assertions.
type call struct {
	op    string
	sheet string
}

// fakeGateway is a scriptable in-memory sheets.Gateway. failOn makes the
// n-th write (1-based) fail, which is how the tests provoke the
// second-write gap.
type fakeGateway struct {
	data   sheets.SheetData
	calls  []call
	failOn int
}

func (g *fakeGateway) FetchAll(_ context.Context) (*sheets.SheetData, error) {
	d := g.data
	return &d, nil
}

func (g *fakeGateway) write(op, sheet string) error {
	g.calls = append(g.calls, call{op: op, sheet: sheet})
	if g.failOn == len(g.calls) {
		return errors.New("simulated gateway failure")
	}
	return nil
}

func (g *fakeGateway) AddRow(_ context.Context, sheet string, _ any) error {
	return g.write("add", sheet)
}

func (g *fakeGateway) UpdateRow(_ context.Context, sheet string, _ any) error {
	return g.write("update", sheet)
}

func (g *fakeGateway) DeleteRow(_ context.Context, sheet string, _ string) error {
	return g.write("delete", sheet)
}

func loadedStore(t *testing.T, gw *fakeGateway) *Store {
	t.Helper()
	store := New(gw, logger.NewNoop())
	require.NoError(t, store.Load(context.Background()))
	gw.calls = nil
	return store
}

func seedData() sheets.SheetData {
	return sheets.SheetData{
		Vehicles: []sheets.VehicleRecord{
			{
				ID:                "v1",
				PlateNumber:       "B 1234 CD",
				Brand:             "Toyota Avanza",
				Year:              2020,
				Status:            string(domain.VehicleAvailable),
				LastServiceDate:   "2024-01-15",
				LastOilChangeDate: "2024-04-01T08:00:00Z",
				LastAccuCheckDate: "2024-01-15",
			},
		},
		Users: []sheets.UserRecord{
			{ID: "u1", Username: "siti", Password: "rahasia1", Role: string(domain.RoleAdmin)},
		},
	}
}

func TestStore_Load(t *testing.T) {
	t.Run("decodes both date layouts", func(t *testing.T) {
		gw := &fakeGateway{data: seedData()}
		store := loadedStore(t, gw)

		v, err := store.Vehicles().GetByID(context.Background(), "v1")
		require.NoError(t, err)
		require.NotNil(t, v.LastServiceDate)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *v.LastServiceDate)
		require.NotNil(t, v.LastOilChangeDate)
		assert.Equal(t, 8, v.LastOilChangeDate.Hour())

		assert.False(t, store.InitialSetup())
	})

	t.Run("empty user collection raises the bootstrap admin", func(t *testing.T) {
		data := seedData()
		data.Users = nil
		gw := &fakeGateway{data: data}
		store := loadedStore(t, gw)

		assert.True(t, store.InitialSetup())

		users, err := store.Users().List(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, BootstrapAdminID, users[0].ID)
		assert.Equal(t, BootstrapAdminUsername, users[0].Username)
		assert.Equal(t, domain.RoleAdmin, users[0].Role)

		// The bootstrap admin lives only in the snapshot.
		assert.Empty(t, gw.calls)
	})

	t.Run("unknown vehicle status defaults to available", func(t *testing.T) {
		data := seedData()
		data.Vehicles[0].Status = "Unknown"
		store := loadedStore(t, &fakeGateway{data: data})

		v, err := store.Vehicles().GetByID(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleAvailable, v.Status)
	})
}

func TestMutationRepo_Start(t *testing.T) {
	newMutation := func() *domain.Mutation {
		return &domain.Mutation{
			ID:          "m1",
			VehicleID:   "v1",
			Driver:      "Budi",
			Destination: "Bandung",
			StartTime:   time.Now(),
			StartKm:     1000,
			DriverPhoto: "data:image/png;base64,aGVsbG8=",
			Status:      domain.MutationOngoing,
		}
	}
	inUseVehicle := func() *domain.Vehicle {
		return &domain.Vehicle{ID: "v1", PlateNumber: "B 1234 CD", Brand: "Toyota Avanza", Year: 2020, Status: domain.VehicleInUse}
	}

	t.Run("writes mutation row then vehicle row", func(t *testing.T) {
		gw := &fakeGateway{data: seedData()}
		store := loadedStore(t, gw)

		err := store.Mutations().Start(context.Background(), newMutation(), inUseVehicle())
		require.NoError(t, err)

		require.Len(t, gw.calls, 2)
		assert.Equal(t, call{op: "add", sheet: sheets.SheetMutations}, gw.calls[0])
		assert.Equal(t, call{op: "update", sheet: sheets.SheetVehicles}, gw.calls[1])

		// Snapshot reflects both writes.
		m, err := store.Mutations().OngoingForVehicle(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, "m1", m.ID)

		v, err := store.Vehicles().GetByID(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleInUse, v.Status)
	})

	t.Run("first write failure leaves the snapshot untouched", func(t *testing.T) {
		gw := &fakeGateway{data: seedData(), failOn: 1}
		store := loadedStore(t, gw)

		err := store.Mutations().Start(context.Background(), newMutation(), inUseVehicle())
		assert.ErrorIs(t, err, domain.ErrGateway)

		_, err = store.Mutations().GetByID(context.Background(), "m1")
		assert.ErrorIs(t, err, domain.ErrMutationNotFound)
	})

	t.Run("second write failure leaves the snapshot untouched", func(t *testing.T) {
		gw := &fakeGateway{data: seedData(), failOn: 2}
		store := loadedStore(t, gw)

		err := store.Mutations().Start(context.Background(), newMutation(), inUseVehicle())
		assert.ErrorIs(t, err, domain.ErrGateway)

		// Both writes were attempted, in order.
		require.Len(t, gw.calls, 2)

		// Locally nothing moved: no mutation, vehicle still available.
		_, err = store.Mutations().GetByID(context.Background(), "m1")
		assert.ErrorIs(t, err, domain.ErrMutationNotFound)

		v, err := store.Vehicles().GetByID(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleAvailable, v.Status)
	})
}

func TestMutationRepo_Complete(t *testing.T) {
	gw := &fakeGateway{data: seedData()}
	store := loadedStore(t, gw)

	mutation := &domain.Mutation{
		ID:          "m1",
		VehicleID:   "v1",
		Driver:      "Budi",
		Destination: "Bandung",
		StartTime:   time.Now(),
		StartKm:     1000,
		DriverPhoto: "data:image/png;base64,aGVsbG8=",
		Status:      domain.MutationOngoing,
	}
	inUse := &domain.Vehicle{ID: "v1", PlateNumber: "B 1234 CD", Brand: "Toyota Avanza", Year: 2020, Status: domain.VehicleInUse}
	require.NoError(t, store.Mutations().Start(context.Background(), mutation, inUse))
	gw.calls = nil

	completed := *mutation
	completed.Complete(1150, "Lancar", time.Now())
	available := *inUse
	available.Status = domain.VehicleAvailable

	require.NoError(t, store.Mutations().Complete(context.Background(), &completed, &available))

	require.Len(t, gw.calls, 2)
	assert.Equal(t, call{op: "update", sheet: sheets.SheetMutations}, gw.calls[0])
	assert.Equal(t, call{op: "update", sheet: sheets.SheetVehicles}, gw.calls[1])

	m, err := store.Mutations().GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.MutationCompleted, m.Status)
	require.NotNil(t, m.Distance)
	assert.Equal(t, 150, *m.Distance)

	_, err = store.Mutations().OngoingForVehicle(context.Background(), "v1")
	assert.ErrorIs(t, err, domain.ErrMutationNotFound)
}

func TestUserRepo_Replace(t *testing.T) {
	data := seedData()
	data.Users = nil
	gw := &fakeGateway{data: data}
	store := loadedStore(t, gw)
	require.True(t, store.InitialSetup())

	user := &domain.User{ID: "u1", Username: "siti", Password: "rahasia1", Role: domain.RoleAdmin}
	require.NoError(t, store.Users().Replace(context.Background(), user))

	// Persisted as an append; the bootstrap admin was never remote.
	require.Len(t, gw.calls, 1)
	assert.Equal(t, call{op: "add", sheet: sheets.SheetUsers}, gw.calls[0])

	users, err := store.Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.False(t, store.InitialSetup())
}

func TestVehicleRepo_Copies(t *testing.T) {
	gw := &fakeGateway{data: seedData()}
	store := loadedStore(t, gw)

	v, err := store.Vehicles().GetByID(context.Background(), "v1")
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the snapshot.
	v.Brand = "changed"

	again, err := store.Vehicles().GetByID(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "Toyota Avanza", again.Brand)
}
