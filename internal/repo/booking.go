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

// BookingRepo persists immutable booking records and their passenger and seat
// lists. Creation is all-or-nothing: a booking row never exists without its
// passengers and seats.
type BookingRepo interface {
	// Create persists the booking, its passenger list, and its seat
	// assignment in one transaction and returns the stored record.
	// Returns domain.ErrSeatConflict if another live booking already holds
	// one of the requested seats on the same trip.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByReference retrieves a booking with passengers and seats by its
	// human-readable reference. Returns domain.ErrNotFound if absent.
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)

	// HeldSeats returns the seat labels currently held by non-cancelled
	// bookings on the trip, in label order.
	HeldSeats(ctx context.Context, tripID uuid.UUID) ([]string, error)

	// MarkCancelled flips a booking to cancelled, releases its seat rows,
	// and returns the freed seats to the trip's seats_remaining, all in one
	// transaction, guarded so terminal bookings are never touched. A paid
	// booking becomes refunded in the same statement.
	// Returns domain.ErrNotFound or domain.ErrTerminalState.
	MarkCancelled(ctx context.Context, id uuid.UUID) error

	// MarkPaid flips payment_status from pending to paid.
	// Returns domain.ErrNotFound if the booking is absent and
	// domain.ErrTerminalState if the booking or its payment can no longer move.
	MarkPaid(ctx context.Context, reference string) error

	// ManifestRows returns one row per passenger across the trip's
	// non-cancelled bookings, ordered by reference then seat position.
	ManifestRows(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestRow, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db txdb
}

// NewBookingRepo constructs a BookingRepo. It needs transaction support, so
// pass *pgxpool.Pool in production or a pgx.Tx in tests (nested transactions
// become savepoints, keeping rollback isolation intact).
func NewBookingRepo(db txdb) BookingRepo {
	return &pgBookingRepo{db: db}
}

// Create writes booking + passengers + seats atomically.
func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const insertBooking = `
		INSERT INTO bookings (reference, trip_id, traveler_id, subtotal, service_fee, total,
		                      status, payment_status)
		VALUES (@reference, @trip_id, @traveler_id, @subtotal, @service_fee, @total,
		        @status, @payment_status)
		RETURNING id, created_at`

	var id pgtype.UUID
	err = tx.QueryRow(ctx, insertBooking, pgx.NamedArgs{
		"reference":      b.Reference,
		"trip_id":        b.TripID,
		"traveler_id":    b.TravelerID,
		"subtotal":       b.Subtotal,
		"service_fee":    b.ServiceFee,
		"total":          b.Total,
		"status":         string(b.Status),
		"payment_status": string(b.PaymentStatus),
	}).Scan(&id, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: booking: %w", err)
	}
	b.ID = uuid.UUID(id.Bytes)

	const insertPassenger = `
		INSERT INTO booking_passengers (booking_id, position, name, contact, document_ref)
		VALUES (@booking_id, @position, @name, @contact, @document_ref)`

	for i, p := range b.Passengers {
		_, err = tx.Exec(ctx, insertPassenger, pgx.NamedArgs{
			"booking_id":   b.ID,
			"position":     i,
			"name":         p.Name,
			"contact":      p.Contact,
			"document_ref": p.DocumentRef,
		})
		if err != nil {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: passenger %d: %w", i, err)
		}
	}

	const insertSeat = `
		INSERT INTO booking_seats (booking_id, trip_id, position, seat_label)
		VALUES (@booking_id, @trip_id, @position, @seat_label)`

	for i, label := range b.Seats {
		_, err = tx.Exec(ctx, insertSeat, pgx.NamedArgs{
			"booking_id": b.ID,
			"trip_id":    b.TripID,
			"position":   i,
			"seat_label": label,
		})
		if err != nil {
			if isLiveSeatViolation(err) {
				// Another booking inserted this seat between our held-seats
				// read and now. Roll everything back and let the engine
				// release its reservation.
				return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: seat %q: %w", label, domain.ErrSeatConflict)
			}
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: seat %q: %w", label, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: commit: %w", err)
	}
	return b, nil
}

// GetByReference loads the booking row and both child lists.
func (r *pgBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	const q = `
		SELECT id, reference, trip_id, traveler_id, subtotal, service_fee, total,
		       status, payment_status, created_at, cancelled_at
		FROM bookings
		WHERE reference = @reference`

	var (
		b           domain.Booking
		id, tripID  pgtype.UUID
		travelerID  pgtype.UUID
		status, pay string
		cancelledAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"reference": reference}).Scan(
		&id, &b.Reference, &tripID, &travelerID, &b.Subtotal, &b.ServiceFee, &b.Total,
		&status, &pay, &b.CreatedAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", domain.ErrNotFound)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", err)
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.TravelerID = uuid.UUID(travelerID.Bytes)
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(pay)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}

	if b.Passengers, err = r.passengers(ctx, b.ID); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", err)
	}
	if b.Seats, err = r.seats(ctx, b.ID); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", err)
	}
	return b, nil
}

// HeldSeats reads the live seat set for a trip. Ordering by the numeric part
// keeps "2" before "10".
func (r *pgBookingRepo) HeldSeats(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	const q = `
		SELECT seat_label
		FROM booking_seats
		WHERE trip_id = @trip_id AND NOT released
		ORDER BY length(seat_label), seat_label`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.HeldSeats: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.HeldSeats: scan: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.HeldSeats: rows: %w", err)
	}
	return labels, nil
}

// MarkCancelled performs the terminal-state-guarded flip, frees the seat
// rows, and gives the seats back to the trip's counter. All three writes
// share one transaction so a crash mid-cancel can never leave a cancelled
// booking with its seats still decremented. The status guard in the WHERE
// clause is a compare-and-swap: a concurrent cancel (or completion) makes
// the RETURNING row empty rather than double-applying.
func (r *pgBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const q = `
		UPDATE bookings
		SET status         = 'cancelled',
		    cancelled_at   = now(),
		    payment_status = CASE WHEN payment_status = 'paid' THEN 'refunded' ELSE payment_status END
		WHERE id = @id
		  AND status NOT IN ('cancelled', 'completed')
		RETURNING trip_id`

	var tripID pgtype.UUID
	err = tx.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&tripID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = @id)`,
			pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
			return fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", err)
		}
		if !exists {
			return fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", domain.ErrTerminalState)
	}
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE booking_seats SET released = true WHERE booking_id = @id AND NOT released`,
		pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: seats: %w", err)
	}

	const restore = `
		UPDATE trips
		SET seats_remaining = LEAST(total_seats, seats_remaining + @count)
		WHERE id = @trip_id`

	_, err = tx.Exec(ctx, restore, pgx.NamedArgs{
		"count":   tag.RowsAffected(),
		"trip_id": uuid.UUID(tripID.Bytes),
	})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: restore: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkCancelled: commit: %w", err)
	}
	return nil
}

// MarkPaid flips payment_status from pending to paid on a live booking.
// The flip and the follow-up classification read share a transaction, the
// same shape MarkCancelled uses.
func (r *pgBookingRepo) MarkPaid(ctx context.Context, reference string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkPaid: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const q = `
		UPDATE bookings
		SET payment_status = 'paid'
		WHERE reference = @reference
		  AND payment_status = 'pending'
		  AND status NOT IN ('cancelled', 'completed')`

	tag, err := tx.Exec(ctx, q, pgx.NamedArgs{"reference": reference})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkPaid: %w", err)
	}
	if tag.RowsAffected() == 1 {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("repo.BookingRepo.MarkPaid: commit: %w", err)
		}
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE reference = @reference)`,
		pgx.NamedArgs{"reference": reference}).Scan(&exists); err != nil {
		return fmt.Errorf("repo.BookingRepo.MarkPaid: %w", err)
	}
	if !exists {
		return fmt.Errorf("repo.BookingRepo.MarkPaid: %w", domain.ErrNotFound)
	}
	return fmt.Errorf("repo.BookingRepo.MarkPaid: %w", domain.ErrTerminalState)
}

// ManifestRows builds the flat passenger manifest for a trip.
func (r *pgBookingRepo) ManifestRows(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestRow, error) {
	const q = `
		SELECT b.reference, p.name, p.contact, p.document_ref, s.seat_label, b.payment_status
		FROM bookings b
		JOIN booking_passengers p ON p.booking_id = b.id
		JOIN booking_seats s ON s.booking_id = b.id AND s.position = p.position
		WHERE b.trip_id = @trip_id
		  AND b.status <> 'cancelled'
		ORDER BY b.reference, p.position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ManifestRows: %w", err)
	}
	defer rows.Close()

	out := []domain.ManifestRow{}
	for rows.Next() {
		var m domain.ManifestRow
		var pay string
		if err := rows.Scan(&m.Reference, &m.PassengerName, &m.Contact, &m.DocumentRef, &m.SeatLabel, &pay); err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ManifestRows: scan: %w", err)
		}
		m.PaymentStatus = domain.PaymentStatus(pay)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ManifestRows: rows: %w", err)
	}
	return out, nil
}

func (r *pgBookingRepo) passengers(ctx context.Context, bookingID uuid.UUID) ([]domain.Passenger, error) {
	const q = `
		SELECT name, contact, document_ref
		FROM booking_passengers
		WHERE booking_id = @id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": bookingID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Passenger
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.Name, &p.Contact, &p.DocumentRef); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *pgBookingRepo) seats(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	const q = `
		SELECT seat_label
		FROM booking_seats
		WHERE booking_id = @id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": bookingID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// isLiveSeatViolation reports whether err is the unique violation on the
// partial index guarding live seats.
func isLiveSeatViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uniq_live_seat"
}
