package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
)

// mockTripRepo implements repo.TripRepo with per-method function fields so
// each test wires exactly the calls it expects.
type mockTripRepo struct {
	createFn       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByIDFn      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPagedFn    func(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int64, error)
	patchFn        func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	reserveSeatsFn func(ctx context.Context, id uuid.UUID, count int) error
	releaseSeatsFn func(ctx context.Context, id uuid.UUID, count int) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.createFn(ctx, trip)
}

func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTripRepo) ListPaged(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPagedFn(ctx, filter, page)
}

func (m *mockTripRepo) Patch(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.patchFn(ctx, id, patch)
}

func (m *mockTripRepo) ReserveSeats(ctx context.Context, id uuid.UUID, count int) error {
	return m.reserveSeatsFn(ctx, id, count)
}

func (m *mockTripRepo) ReleaseSeats(ctx context.Context, id uuid.UUID, count int) error {
	return m.releaseSeatsFn(ctx, id, count)
}

type mockBookingRepo struct {
	createFn         func(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	getByReferenceFn func(ctx context.Context, reference string) (domain.Booking, error)
	heldSeatsFn      func(ctx context.Context, tripID uuid.UUID) ([]string, error)
	markCancelledFn  func(ctx context.Context, id uuid.UUID) error
	markPaidFn       func(ctx context.Context, reference string) error
	manifestRowsFn   func(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestRow, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	return m.getByReferenceFn(ctx, reference)
}

func (m *mockBookingRepo) HeldSeats(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	return m.heldSeatsFn(ctx, tripID)
}

func (m *mockBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	return m.markCancelledFn(ctx, id)
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, reference string) error {
	return m.markPaidFn(ctx, reference)
}

func (m *mockBookingRepo) ManifestRows(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestRow, error) {
	return m.manifestRowsFn(ctx, tripID)
}

type mockTrackingStore struct {
	writeFn   func(ctx context.Context, tripID uuid.UUID, snap domain.TrackingSnapshot) error
	readFn    func(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error)
	setIdleFn func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockTrackingStore) Write(ctx context.Context, tripID uuid.UUID, snap domain.TrackingSnapshot) error {
	return m.writeFn(ctx, tripID, snap)
}

func (m *mockTrackingStore) Read(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error) {
	return m.readFn(ctx, tripID)
}

func (m *mockTrackingStore) SetIdle(ctx context.Context, tripID uuid.UUID) error {
	return m.setIdleFn(ctx, tripID)
}

// fixedRef returns the same reference for every booking, keeping assertions simple.
type fixedRef struct{ ref string }

func (f fixedRef) New(time.Time) string { return f.ref }
