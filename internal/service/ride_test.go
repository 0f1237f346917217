package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carpool/internal/domain"
	"github.com/pkordes/carpool/internal/repo"
	"github.com/pkordes/carpool/internal/service"
)

// mockRideStore is a hand-written test double for repo.RideStore.
// Each method is a function field; set only the ones your test needs.
type mockRideStore struct {
	load func(ctx context.Context) ([]domain.RideOffer, error)
	save func(ctx context.Context, offers []domain.RideOffer) error
}

func (m *mockRideStore) Load(ctx context.Context) ([]domain.RideOffer, error) {
	return m.load(ctx)
}
func (m *mockRideStore) Save(ctx context.Context, offers []domain.RideOffer) error {
	return m.save(ctx, offers)
}

// compile-time check: mockRideStore must satisfy repo.RideStore.
var _ repo.RideStore = (*mockRideStore)(nil)

// memStore is a RideStore over a slice. Load and Save deep-copy so tests can
// observe exactly what was persisted.
type memStore struct {
	mu     sync.Mutex
	offers []domain.RideOffer
	saves  int
}

func (m *memStore) Load(_ context.Context) ([]domain.RideOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RideOffer, len(m.offers))
	for i, o := range m.offers {
		out[i] = o.Clone()
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, offers []domain.RideOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers = make([]domain.RideOffer, len(offers))
	for i, o := range offers {
		m.offers[i] = o.Clone()
	}
	m.saves++
	return nil
}

// ---- helpers ---------------------------------------------------------------

func ride(driver string, seats int, passengers ...string) domain.RideOffer {
	if passengers == nil {
		passengers = []string{}
	}
	return domain.RideOffer{
		ID:            uuid.New(),
		DriverName:    driver,
		DepartureTime: "08:00",
		Origin:        "Centro",
		TotalSeats:    seats,
		Passengers:    passengers,
	}
}

func newService(offers ...domain.RideOffer) (*service.RideService, *memStore) {
	st := &memStore{}
	_ = st.Save(context.Background(), offers)
	st.saves = 0
	return service.NewRideService(st, nil), st
}

// ---- List ------------------------------------------------------------------

func TestRideService_List_Empty(t *testing.T) {
	svc := service.NewRideService(&mockRideStore{
		load: func(_ context.Context) ([]domain.RideOffer, error) { return nil, nil },
	}, nil)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	// Should return an empty slice, not nil, so callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRideService_List_StoreError(t *testing.T) {
	storeErr := fmt.Errorf("load: %w", repo.ErrCorruptStore)
	svc := service.NewRideService(&mockRideStore{
		load: func(_ context.Context) ([]domain.RideOffer, error) { return nil, storeErr },
	}, nil)

	_, err := svc.List(context.Background())

	// Storage errors are surfaced, never recovered.
	assert.ErrorIs(t, err, repo.ErrCorruptStore)
}

// ---- CreateOffer -----------------------------------------------------------

func TestRideService_CreateOffer_EmptyRegistry(t *testing.T) {
	svc, st := newService()

	got, err := svc.CreateOffer(context.Background(), "Ana", "08:00", "Centro", 3)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	require.Len(t, st.offers, 1)
	assert.Equal(t, got, st.offers[0])
	assert.Empty(t, st.offers[0].Passengers)
	assert.NotNil(t, st.offers[0].Passengers)
	assert.Equal(t, 3, st.offers[0].AvailableSeats())
}

func TestRideService_CreateOffer_AppendsInOrder(t *testing.T) {
	first := ride("Ana", 2)
	svc, st := newService(first)

	_, err := svc.CreateOffer(context.Background(), "Bia", "9:15", "Vila Mariana", 4)

	require.NoError(t, err)
	require.Len(t, st.offers, 2)
	assert.Equal(t, first, st.offers[0])
	assert.Equal(t, "Bia", st.offers[1].DriverName)
	assert.Equal(t, "09:15", st.offers[1].DepartureTime, "time should be normalized")
}

func TestRideService_CreateOffer_TrimsFields(t *testing.T) {
	svc, _ := newService()

	got, err := svc.CreateOffer(context.Background(), "  Ana ", "08:00", " Centro ", 1)

	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DriverName)
	assert.Equal(t, "Centro", got.Origin)
}

func TestRideService_CreateOffer_FieldsMissing(t *testing.T) {
	cases := map[string][2]string{
		"empty driver":      {"", "Centro"},
		"whitespace driver": {"   ", "Centro"},
		"empty origin":      {"Ana", ""},
		"both empty":        {"", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			existing := ride("Carla", 2)
			svc, st := newService(existing)

			_, err := svc.CreateOffer(context.Background(), tc[0], "08:00", tc[1], 3)

			assert.ErrorIs(t, err, domain.ErrFieldsMissing)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Len(t, st.offers, 1, "registry length must be unchanged")
			assert.Zero(t, st.saves)
		})
	}
}

func TestRideService_CreateOffer_BadTime(t *testing.T) {
	svc, st := newService()

	_, err := svc.CreateOffer(context.Background(), "Ana", "25:00", "Centro", 3)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrFieldsMissing)
	assert.Empty(t, st.offers)
}

func TestRideService_CreateOffer_SeatsOutOfRange(t *testing.T) {
	for _, seats := range []int{0, -1, 5} {
		svc, st := newService()

		_, err := svc.CreateOffer(context.Background(), "Ana", "08:00", "Centro", seats)

		assert.ErrorIs(t, err, domain.ErrValidation, "seats=%d", seats)
		assert.Empty(t, st.offers)
	}
}

func TestRideService_CreateOffer_SaveError(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := service.NewRideService(&mockRideStore{
		load: func(_ context.Context) ([]domain.RideOffer, error) { return nil, nil },
		save: func(_ context.Context, _ []domain.RideOffer) error { return storeErr },
	}, nil)

	_, err := svc.CreateOffer(context.Background(), "Ana", "08:00", "Centro", 3)

	assert.ErrorIs(t, err, storeErr)
}

// ---- JoinOffer -------------------------------------------------------------

func TestRideService_JoinOffer_LastSeat(t *testing.T) {
	r := ride("Ana", 1)
	svc, st := newService(r)
	ctx := context.Background()

	got, err := svc.JoinOffer(ctx, r.ID, "Bia")

	require.NoError(t, err)
	assert.Equal(t, []string{"Bia"}, got.Passengers)
	assert.Equal(t, 0, got.AvailableSeats())
	assert.Equal(t, []string{"Bia"}, st.offers[0].Passengers)

	opts, err := svc.JoinOptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, opts, "a full ride must not be offered for joining")
}

func TestRideService_JoinOffer_KeepsJoinOrder(t *testing.T) {
	r := ride("Ana", 4, "Bia")
	svc, st := newService(r)

	_, err := svc.JoinOffer(context.Background(), r.ID, "Caio")

	require.NoError(t, err)
	assert.Equal(t, []string{"Bia", "Caio"}, st.offers[0].Passengers)
}

func TestRideService_JoinOffer_AlreadyJoined(t *testing.T) {
	r := ride("Ana", 3, "Bia")
	svc, st := newService(r)

	_, err := svc.JoinOffer(context.Background(), r.ID, "Bia")

	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
	assert.Equal(t, []string{"Bia"}, st.offers[0].Passengers)
	assert.Zero(t, st.saves)
}

func TestRideService_JoinOffer_NameMissing(t *testing.T) {
	r := ride("Ana", 3)
	svc, st := newService(r)

	for _, name := range []string{"", "  "} {
		_, err := svc.JoinOffer(context.Background(), r.ID, name)

		assert.ErrorIs(t, err, domain.ErrNameMissing)
		assert.Empty(t, st.offers[0].Passengers)
	}
	assert.Zero(t, st.saves)
}

func TestRideService_JoinOffer_Full(t *testing.T) {
	r := ride("Ana", 1, "Bia")
	svc, st := newService(r)

	_, err := svc.JoinOffer(context.Background(), r.ID, "Caio")

	assert.ErrorIs(t, err, domain.ErrRideFull)
	assert.Equal(t, []string{"Bia"}, st.offers[0].Passengers)
}

// TestRideService_JoinOffer_DuplicateBeforeFull checks that a passenger
// re-joining a full ride is told they are already on it.
func TestRideService_JoinOffer_DuplicateBeforeFull(t *testing.T) {
	r := ride("Ana", 1, "Bia")
	svc, _ := newService(r)

	_, err := svc.JoinOffer(context.Background(), r.ID, "Bia")

	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func TestRideService_JoinOffer_NotFound(t *testing.T) {
	svc, _ := newService(ride("Ana", 2))

	_, err := svc.JoinOffer(context.Background(), uuid.New(), "Bia")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRideService_JoinOffer_NeverOverfills races more passengers than seats
// at one ride; the seat invariant must hold afterwards.
func TestRideService_JoinOffer_NeverOverfills(t *testing.T) {
	r := ride("Ana", 4)
	svc, st := newService(r)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		full   int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.JoinOffer(context.Background(), r.ID, fmt.Sprintf("p%d", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, domain.ErrRideFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, joined)
	assert.Equal(t, 16, full)
	assert.Len(t, st.offers[0].Passengers, 4)
	assert.LessOrEqual(t, len(st.offers[0].Passengers), st.offers[0].TotalSeats)
}

// ---- DeleteOffer -----------------------------------------------------------

func TestRideService_DeleteOffer_SecondOfSameDriver(t *testing.T) {
	first := ride("Ana", 2, "Bia")
	second := ride("Ana", 3)
	second.DepartureTime = "10:00"
	other := ride("Caio", 1)
	svc, st := newService(first, second, other)

	removed, err := svc.DeleteOffer(context.Background(), second.ID, "Ana")

	require.NoError(t, err)
	assert.Equal(t, second.ID, removed.ID)
	require.Len(t, st.offers, 2)
	assert.Equal(t, first, st.offers[0], "first Ana ride must be untouched")
	assert.Equal(t, other, st.offers[1])
}

func TestRideService_DeleteOffer_NotOwner(t *testing.T) {
	r := ride("Ana", 2)
	svc, st := newService(r)

	_, err := svc.DeleteOffer(context.Background(), r.ID, "Bia")

	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Len(t, st.offers, 1)
	assert.Zero(t, st.saves)
}

func TestRideService_DeleteOffer_NotFound(t *testing.T) {
	svc, _ := newService(ride("Ana", 2))

	_, err := svc.DeleteOffer(context.Background(), uuid.New(), "Ana")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Get -------------------------------------------------------------------

func TestRideService_Get(t *testing.T) {
	r := ride("Ana", 2)
	svc, _ := newService(ride("Bia", 1), r)

	got, err := svc.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- pickers ---------------------------------------------------------------

func TestRideService_JoinOptions(t *testing.T) {
	open := ride("Ana", 3, "Bia")
	full := ride("Caio", 1, "Duda")
	svc, _ := newService(open, full)

	opts, err := svc.JoinOptions(context.Background())

	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, open.ID, opts[0].RideID)
	assert.Equal(t, "Ana - 08:00 - Centro (2 vagas)", opts[0].Label)
	assert.Equal(t, 2, opts[0].AvailableSeats)
}

func TestRideService_DriverOffers(t *testing.T) {
	a1 := ride("Ana", 3, "Bia")
	b := ride("Bia", 2)
	a2 := ride("Ana", 1)
	svc, _ := newService(a1, b, a2)
	ctx := context.Background()

	opts, err := svc.DriverOffers(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, a1.ID, opts[0].RideID)
	assert.Equal(t, "08:00 - Centro (1/3 ocupantes)", opts[0].Label)
	assert.Equal(t, a2.ID, opts[1].RideID)

	opts, err = svc.DriverOffers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = svc.DriverOffers(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, opts, "driver names match exactly")
}

// TestRideService_PaddedStoredNames verifies that names stored with stray
// blanks (rows inserted outside the service) still match what users type.
func TestRideService_PaddedStoredNames(t *testing.T) {
	padded := ride("Ana ", 3, " Bia")
	svc, st := newService(padded)
	ctx := context.Background()

	opts, err := svc.DriverOffers(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, padded.ID, opts[0].RideID)

	_, err = svc.JoinOffer(ctx, padded.ID, "Bia")
	require.ErrorIs(t, err, domain.ErrAlreadyJoined)

	_, err = svc.DeleteOffer(ctx, padded.ID, "Ana")
	require.NoError(t, err)
	assert.Empty(t, st.offers)
}
