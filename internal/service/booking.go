// Package service contains the business logic for the Vadtrans API.
// Services validate inputs, enforce ownership and state rules, and orchestrate
// repo calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/fare"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/ref"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/repo"
)

// BookingService is the reservation engine: it turns a validated booking
// request into a seat reservation plus an immutable booking record, and
// guarantees the two never diverge: any failure after the seat decrement
// releases the seats before the error is returned.
type BookingService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	refs     ref.Generator
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(trips repo.TripRepo, bookings repo.BookingRepo, refs ref.Generator) *BookingService {
	return &BookingService{trips: trips, bookings: bookings, refs: refs}
}

// CreateBookingCommand carries everything the engine needs for one attempt.
type CreateBookingCommand struct {
	TripID     uuid.UUID
	Requester  domain.Identity
	Passengers []domain.Passenger

	// SeatLabels, when non-empty, requests explicit seats (one per
	// passenger). Empty means "assign the next available seats".
	SeatLabels []string

	// ClientTotal is the total the client believes it will pay. It is
	// advisory only. The engine recomputes financials from the persisted
	// price and ignores the client value for the stored record, so a
	// tampered client cannot change what a booking costs.
	ClientTotal *int64
}

// Create runs the reservation steps in strict order: validate, reserve
// capacity, compute fare, assign seats, persist. The seat reservation is the
// only step that mutates shared state before the booking row exists, so every
// later failure path releases it.
func (s *BookingService) Create(ctx context.Context, cmd CreateBookingCommand) (domain.Booking, error) {
	if err := validatePassengers(cmd.Passengers, cmd.SeatLabels); err != nil {
		return domain.Booking{}, err
	}

	trip, err := s.trips.GetByID(ctx, cmd.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if trip.Status != domain.TripActive {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", domain.ErrTripInactive)
	}

	count := len(cmd.Passengers)
	if err := s.trips.ReserveSeats(ctx, trip.ID, count); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	booking, err := s.buildAndPersist(ctx, trip, cmd)
	if err != nil {
		// Rollback rule: seats must never stay decremented without a
		// persisted booking. Best-effort; the clamp in the repo keeps
		// a double release from corrupting the counter.
		_ = s.trips.ReleaseSeats(ctx, trip.ID, count)
		return domain.Booking{}, err
	}
	return booking, nil
}

// buildAndPersist covers the steps that run while seats are held.
func (s *BookingService) buildAndPersist(ctx context.Context, trip domain.Trip, cmd CreateBookingCommand) (domain.Booking, error) {
	quote := fare.NewQuote(trip.PricePerSeat, len(cmd.Passengers))

	held, err := s.bookings.HeldSeats(ctx, trip.ID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	seats, err := resolveSeats(trip.TotalSeats, len(cmd.Passengers), cmd.SeatLabels, held)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	now := time.Now().UTC()
	booking := domain.Booking{
		Reference:     s.refs.New(now),
		TripID:        trip.ID,
		TravelerID:    cmd.Requester.UserID,
		Passengers:    cmd.Passengers,
		Seats:         seats,
		Subtotal:      quote.Subtotal,
		ServiceFee:    quote.ServiceFee,
		Total:         quote.Total,
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentPending,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

// GetByReference returns a booking to its owner (or an admin).
func (s *BookingService) GetByReference(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByReference: %w", err)
	}
	if !requester.IsAdmin() && booking.TravelerID != requester.UserID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByReference: %w", domain.ErrForbidden)
	}
	return booking, nil
}

// Cancel reverses a booking: terminal-state guard, then the status flip and
// seat release, which the repo applies in a single transaction so the seat
// counter and the booking status can never disagree.
func (s *BookingService) Cancel(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	if !requester.IsAdmin() && booking.TravelerID != requester.UserID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", domain.ErrForbidden)
	}

	if err := s.bookings.MarkCancelled(ctx, booking.ID); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}

	updated, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	return updated, nil
}

// Pay simulates the payment step, moving a live booking from pending to paid.
func (s *BookingService) Pay(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}
	if !requester.IsAdmin() && booking.TravelerID != requester.UserID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Pay: %w", domain.ErrForbidden)
	}

	if err := s.bookings.MarkPaid(ctx, reference); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}

	updated, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Pay: %w", err)
	}
	return updated, nil
}

// Manifest returns the passenger manifest for a trip's owning operator or an admin.
func (s *BookingService) Manifest(ctx context.Context, tripID uuid.UUID, requester domain.Identity) ([]domain.ManifestRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Manifest: %w", err)
	}
	if !requester.IsAdmin() && trip.OperatorID != requester.UserID {
		return nil, fmt.Errorf("service.BookingService.Manifest: %w", domain.ErrForbidden)
	}

	rows, err := s.bookings.ManifestRows(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Manifest: %w", err)
	}
	if rows == nil {
		rows = []domain.ManifestRow{}
	}
	return rows, nil
}

// validatePassengers enforces the request-shape rules of the engine's first step.
func validatePassengers(passengers []domain.Passenger, seatLabels []string) error {
	if len(passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}
	for i, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: passenger %d: name is required", domain.ErrValidation, i+1)
		}
		if strings.TrimSpace(p.Contact) == "" {
			return fmt.Errorf("%w: passenger %d: contact is required", domain.ErrValidation, i+1)
		}
	}
	if len(seatLabels) > 0 {
		if len(seatLabels) != len(passengers) {
			return fmt.Errorf("%w: %d seats requested for %d passengers",
				domain.ErrValidation, len(seatLabels), len(passengers))
		}
		seen := map[string]bool{}
		for _, l := range seatLabels {
			if seen[l] {
				return fmt.Errorf("%w: seat %q requested twice", domain.ErrValidation, l)
			}
			seen[l] = true
		}
	}
	return nil
}

// resolveSeats produces the final seat assignment. Seat labels are the
// numbers "1".."totalSeats" as strings and must arrive in exactly that
// form: aliases like "01" or "+1" that parse to an in-range number are
// rejected, since a held-set lookup by string would not see them as the
// seat they name. Explicit labels are checked against the layout range and
// the held set; otherwise the lowest-numbered free seats are assigned,
// which keeps assignment deterministic for a given held set.
func resolveSeats(totalSeats, count int, requested, held []string) ([]string, error) {
	taken := make(map[string]bool, len(held))
	for _, l := range held {
		taken[l] = true
	}

	if len(requested) > 0 {
		for _, l := range requested {
			n, err := strconv.Atoi(l)
			if err != nil || strconv.Itoa(n) != l || n < 1 || n > totalSeats {
				return nil, fmt.Errorf("%w: seat %q is not a seat label in 1..%d", domain.ErrValidation, l, totalSeats)
			}
			if taken[l] {
				return nil, fmt.Errorf("seat %q: %w", l, domain.ErrSeatConflict)
			}
		}
		return requested, nil
	}

	seats := make([]string, 0, count)
	for n := 1; n <= totalSeats && len(seats) < count; n++ {
		if l := strconv.Itoa(n); !taken[l] {
			seats = append(seats, l)
		}
	}
	if len(seats) < count {
		// The counter said there was room but the live seat set disagrees;
		// another booking slipped in between. Treated like any seat race.
		return nil, fmt.Errorf("only %d free seats in layout: %w", len(seats), domain.ErrSeatConflict)
	}
	return seats, nil
}
