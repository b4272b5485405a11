package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/repo"
)

// TripService manages trip inventory: publishing, lookup, and operator edits.
type TripService struct {
	trips repo.TripRepo
}

func NewTripService(trips repo.TripRepo) *TripService {
	return &TripService{trips: trips}
}

// CreateTripCommand is the publishable subset of a trip. OperatorID comes
// from the authenticated identity, never from the request body.
type CreateTripCommand struct {
	Requester       domain.Identity
	Origin          string
	Destination     string
	Category        domain.Category
	DepartureAt     time.Time
	DurationMinutes *int
	TotalSeats      int
	PricePerSeat    int64
}

// Create publishes a new trip with full capacity remaining.
func (s *TripService) Create(ctx context.Context, cmd CreateTripCommand) (domain.Trip, error) {
	if cmd.Requester.Role != domain.RoleOperator && !cmd.Requester.IsAdmin() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrForbidden)
	}
	if err := validateTrip(cmd); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		OperatorID:      cmd.Requester.UserID,
		Origin:          strings.TrimSpace(cmd.Origin),
		Destination:     strings.TrimSpace(cmd.Destination),
		Category:        cmd.Category,
		DepartureAt:     cmd.DepartureAt,
		DurationMinutes: cmd.DurationMinutes,
		TotalSeats:      cmd.TotalSeats,
		SeatsRemaining:  cmd.TotalSeats,
		PricePerSeat:    cmd.PricePerSeat,
		Status:          domain.TripActive,
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip. Trips are public inventory, so there is no
// ownership check on reads.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns a page of trips matching the filter.
func (s *TripService) List(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, filter.Category)
	}
	trips, total, err := s.trips.ListPaged(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, int(total), nil
}

// Patch applies an operator edit to price or status. Existing bookings keep
// their recorded financials, so a price change only affects future bookings.
func (s *TripService) Patch(ctx context.Context, id uuid.UUID, requester domain.Identity, patch domain.TripPatch) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}
	if !requester.IsAdmin() && trip.OperatorID != requester.UserID {
		return domain.Trip{}, fmt.Errorf("service.TripService.Patch: %w", domain.ErrForbidden)
	}

	if patch.PricePerSeat != nil && *patch.PricePerSeat < 0 {
		return domain.Trip{}, fmt.Errorf("%w: price_per_seat must not be negative", domain.ErrValidation)
	}
	if patch.Status != nil && *patch.Status != domain.TripActive && *patch.Status != domain.TripInactive {
		return domain.Trip{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *patch.Status)
	}

	updated, err := s.trips.Patch(ctx, id, patch)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}
	return updated, nil
}

func validateTrip(cmd CreateTripCommand) error {
	if strings.TrimSpace(cmd.Origin) == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}
	if strings.TrimSpace(cmd.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if !cmd.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, cmd.Category)
	}
	if cmd.DepartureAt.IsZero() {
		return fmt.Errorf("%w: departure_at is required", domain.ErrValidation)
	}
	if cmd.TotalSeats < 1 {
		return fmt.Errorf("%w: total_seats must be at least 1", domain.ErrValidation)
	}
	if cmd.PricePerSeat < 0 {
		return fmt.Errorf("%w: price_per_seat must not be negative", domain.ErrValidation)
	}
	if cmd.DurationMinutes != nil && *cmd.DurationMinutes < 1 {
		return fmt.Errorf("%w: duration_minutes must be at least 1", domain.ErrValidation)
	}
	return nil
}
