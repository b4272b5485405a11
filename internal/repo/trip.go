// Package repo contains all database access logic for the Vadtrans API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txdb adds transaction support. *pgxpool.Pool starts a real transaction;
// a pgx.Tx passed by tests starts a savepoint, so rollback isolation still works.
type txdb interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo is the sole authority on seat counts and trip metadata.
// The service layer depends on this interface, not the Postgres implementation.
type TripRepo interface {
	// Create inserts a new trip with seats_remaining = total_seats and returns
	// the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips matching the filter, newest
	// departure first, plus the total match count.
	ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Patch applies the non-nil fields of patch to the trip and returns the
	// updated record. Returns domain.ErrNotFound if the trip does not exist.
	Patch(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)

	// ReserveSeats atomically checks seats_remaining >= count and decrements
	// it in the same statement. The check-then-decrement is one row-level
	// operation: two concurrent reservations on the same trip can never both
	// succeed for the last seat, and reservations on different trips never
	// block each other.
	// Returns domain.ErrNotFound, domain.ErrTripInactive, or
	// domain.ErrInsufficientCapacity when the reservation cannot be made;
	// state is untouched in every failure case.
	ReserveSeats(ctx context.Context, tripID uuid.UUID, count int) error

	// ReleaseSeats atomically increments seats_remaining by count, clamped so
	// it never exceeds total_seats. seats_remaining stays within
	// [0, total_seats] even if a caller releases more than it reserved.
	ReleaseSeats(ctx context.Context, tripID uuid.UUID, count int) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, operator_id, origin, destination, category, departure_at,
	       duration_minutes, total_seats, seats_remaining, price_per_seat, status,
	       created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (operator_id, origin, destination, category, departure_at,
		                   duration_minutes, total_seats, seats_remaining, price_per_seat, status)
		VALUES (@operator_id, @origin, @destination, @category, @departure_at,
		        @duration_minutes, @total_seats, @total_seats, @price_per_seat, 'active')
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"operator_id":      trip.OperatorID,
		"origin":           trip.Origin,
		"destination":      trip.Destination,
		"category":         string(trip.Category),
		"departure_at":     trip.DepartureAt,
		"duration_minutes": trip.DurationMinutes, // nil becomes NULL
		"total_seats":      trip.TotalSeats,
		"price_per_seat":   trip.PricePerSeat,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, including its live seat counter.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of trips matching the filter plus the total count.
// Empty filter fields are no-ops, matched in SQL with (@x = '' OR column = @x).
func (r *pgTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const where = `
		WHERE (@origin = '' OR origin ILIKE @origin)
		  AND (@destination = '' OR destination ILIKE @destination)
		  AND (@category = '' OR category = @category)
		  AND (NOT @active_only OR status = 'active')`

	args := pgx.NamedArgs{
		"origin":      f.Origin,
		"destination": f.Destination,
		"category":    string(f.Category),
		"active_only": f.ActiveOnly,
		"limit":       p.Limit,
		"offset":      p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+` FROM trips`+where+`
		ORDER BY departure_at DESC
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	return trips, total, nil
}

// Patch updates price and/or status, leaving nil fields untouched via COALESCE.
func (r *pgTripRepo) Patch(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET price_per_seat = COALESCE(@price_per_seat, price_per_seat),
		    status         = COALESCE(@status, status),
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	args := pgx.NamedArgs{
		"id":             id,
		"price_per_seat": patch.PricePerSeat,
		"status":         status,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Patch: %w", err)
	}
	return result, nil
}

// ReserveSeats performs the atomic check-then-decrement. The WHERE clause is
// the whole concurrency story: the row is checked and decremented in a single
// statement under the row lock, so RowsAffected()==1 means this caller won the
// seats and no other caller saw them.
func (r *pgTripRepo) ReserveSeats(ctx context.Context, tripID uuid.UUID, count int) error {
	const q = `
		UPDATE trips
		SET seats_remaining = seats_remaining - @count,
		    updated_at      = now()
		WHERE id = @id
		  AND status = 'active'
		  AND seats_remaining >= @count`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "count": count})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing was decremented. Read the row once to say why.
	trip, err := r.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", domain.ErrNotFound)
	}
	if trip.Status != domain.TripActive {
		return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", domain.ErrTripInactive)
	}
	return fmt.Errorf("repo.TripRepo.ReserveSeats: %d requested, %d remaining: %w",
		count, trip.SeatsRemaining, domain.ErrInsufficientCapacity)
}

// ReleaseSeats restores capacity after a cancellation or a failed booking
// attempt. LEAST keeps the counter inside [0, total_seats] no matter how the
// caller misbehaves.
func (r *pgTripRepo) ReleaseSeats(ctx context.Context, tripID uuid.UUID, count int) error {
	const q = `
		UPDATE trips
		SET seats_remaining = LEAST(total_seats, seats_remaining + @count),
		    updated_at      = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "count": count})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.ReleaseSeats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.ReleaseSeats: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id, opID   pgtype.UUID
		category   string
		tripStatus string
		duration   pgtype.Int4
	)

	err := s.Scan(&id, &opID, &t.Origin, &t.Destination, &category, &t.DepartureAt,
		&duration, &t.TotalSeats, &t.SeatsRemaining, &t.PricePerSeat, &tripStatus,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OperatorID = uuid.UUID(opID.Bytes)
	t.Category = domain.Category(category)
	t.Status = domain.TripStatus(tripStatus)
	if duration.Valid {
		d := int(duration.Int32)
		t.DurationMinutes = &d
	}

	return t, nil
}
