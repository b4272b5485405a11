package repo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/repo"
	"github.com/Sucrepapii/Vadtrans-sub000/testutil"
)

// newTestTx opens a transaction against the test database; it is rolled back
// when the test finishes, so tests never see each other's rows.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func newTestTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	return repo.NewTripRepo(newTestTx(t))
}

// tripFixture returns a trip ready to insert. Override fields as needed.
func tripFixture() domain.Trip {
	return domain.Trip{
		OperatorID:     uuid.New(),
		Origin:         "Lagos",
		Destination:    "Abuja",
		Category:       domain.CategoryInterState,
		DepartureAt:    time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		TotalSeats:     5,
		SeatsRemaining: 5,
		PricePerSeat:   25000,
		Status:         domain.TripActive,
	}
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated")
	assert.Equal(t, input.Origin, got.Origin)
	assert.Equal(t, input.TotalSeats, got.SeatsRemaining)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ReserveSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements remaining", func(t *testing.T) {
		r := newTestTripRepo(t)
		trip, err := r.Create(ctx, tripFixture())
		require.NoError(t, err)

		require.NoError(t, r.ReserveSeats(ctx, trip.ID, 3))

		got, err := r.GetByID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.SeatsRemaining)
	})

	t.Run("insufficient capacity leaves state untouched", func(t *testing.T) {
		r := newTestTripRepo(t)
		trip, err := r.Create(ctx, tripFixture())
		require.NoError(t, err)

		err = r.ReserveSeats(ctx, trip.ID, 6)
		require.ErrorIs(t, err, domain.ErrInsufficientCapacity)

		got, err := r.GetByID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.SeatsRemaining, "failed reservation must not change the count")
	})

	t.Run("inactive trip cannot be reserved", func(t *testing.T) {
		r := newTestTripRepo(t)
		trip, err := r.Create(ctx, tripFixture())
		require.NoError(t, err)

		inactive := domain.TripInactive
		_, err = r.Patch(ctx, trip.ID, domain.TripPatch{Status: &inactive})
		require.NoError(t, err)

		err = r.ReserveSeats(ctx, trip.ID, 1)
		require.ErrorIs(t, err, domain.ErrTripInactive)
	})

	t.Run("unknown trip", func(t *testing.T) {
		r := newTestTripRepo(t)
		err := r.ReserveSeats(ctx, uuid.New(), 1)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTripRepo_ReleaseSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve then release restores the count", func(t *testing.T) {
		r := newTestTripRepo(t)
		trip, err := r.Create(ctx, tripFixture())
		require.NoError(t, err)

		require.NoError(t, r.ReserveSeats(ctx, trip.ID, 4))
		require.NoError(t, r.ReleaseSeats(ctx, trip.ID, 4))

		got, err := r.GetByID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, trip.TotalSeats, got.SeatsRemaining)
	})

	t.Run("release is clamped at total seats", func(t *testing.T) {
		r := newTestTripRepo(t)
		trip, err := r.Create(ctx, tripFixture())
		require.NoError(t, err)

		require.NoError(t, r.ReleaseSeats(ctx, trip.ID, 3))

		got, err := r.GetByID(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, trip.TotalSeats, got.SeatsRemaining, "remaining must never exceed total")
	})
}

// TestTripRepo_ConcurrentReservations hammers one trip from many goroutines
// and checks that exactly seats-many reservations succeed. It uses the pool
// directly (not a rolled-back transaction) because the contention happens
// across connections.
func TestTripRepo_ConcurrentReservations(t *testing.T) {
	pool := testutil.NewPool(t)
	r := repo.NewTripRepo(pool)
	ctx := context.Background()

	const seats = 5
	const contenders = 20

	fixture := tripFixture()
	fixture.TotalSeats = seats
	fixture.SeatsRemaining = seats
	trip, err := r.Create(ctx, fixture)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, trip.ID)
	})

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- r.ReserveSeats(ctx, trip.ID, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientCapacity)
		}
	}
	assert.Equal(t, seats, succeeded, "exactly the available seats may be reserved")

	got, err := r.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Zero(t, got.SeatsRemaining)
}

func TestTripRepo_ListPaged(t *testing.T) {
	ctx := context.Background()
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	mk := func(origin, destination string, category domain.Category, status domain.TripStatus) domain.Trip {
		f := tripFixture()
		f.Origin = origin
		f.Destination = destination
		f.Category = category
		f.Status = status
		trip, err := r.Create(ctx, f)
		require.NoError(t, err)
		if status != domain.TripActive {
			_, err = r.Patch(ctx, trip.ID, domain.TripPatch{Status: &status})
			require.NoError(t, err)
		}
		return trip
	}

	mk("Lagos", "Abuja", domain.CategoryInterState, domain.TripActive)
	mk("Lagos", "Ibadan", domain.CategoryInterState, domain.TripInactive)
	mk("Ikeja", "Lekki", domain.CategoryIntraState, domain.TripActive)
	mk("Lagos", "Accra", domain.CategoryInternational, domain.TripActive)

	t.Run("origin filter is case-insensitive", func(t *testing.T) {
		trips, total, err := r.ListPaged(ctx, domain.TripFilter{Origin: "lagos"}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, trips, 3)
	})

	t.Run("active only", func(t *testing.T) {
		_, total, err := r.ListPaged(ctx, domain.TripFilter{Origin: "Lagos", ActiveOnly: true}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("category filter", func(t *testing.T) {
		trips, total, err := r.ListPaged(ctx, domain.TripFilter{Category: domain.CategoryInternational}, domain.NewPaginationParams(nil, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, trips, 1)
		assert.Equal(t, "Accra", trips[0].Destination)
	})

	t.Run("pagination caps the page", func(t *testing.T) {
		page, limit := 1, 2
		trips, total, err := r.ListPaged(ctx, domain.TripFilter{}, domain.NewPaginationParams(&page, &limit))
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, trips, 2)
	})
}

func TestTripRepo_Patch(t *testing.T) {
	ctx := context.Background()
	r := newTestTripRepo(t)

	trip, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	t.Run("price only", func(t *testing.T) {
		price := int64(30000)
		got, err := r.Patch(ctx, trip.ID, domain.TripPatch{PricePerSeat: &price})
		require.NoError(t, err)
		assert.Equal(t, price, got.PricePerSeat)
		assert.Equal(t, domain.TripActive, got.Status, "untouched fields keep their values")
	})

	t.Run("status only", func(t *testing.T) {
		inactive := domain.TripInactive
		got, err := r.Patch(ctx, trip.ID, domain.TripPatch{Status: &inactive})
		require.NoError(t, err)
		assert.Equal(t, domain.TripInactive, got.Status)
		assert.Equal(t, int64(30000), got.PricePerSeat)
	})

	t.Run("unknown trip", func(t *testing.T) {
		price := int64(1)
		_, err := r.Patch(ctx, uuid.New(), domain.TripPatch{PricePerSeat: &price})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
