package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/handler"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/service"
)

// Test doubles for the handler's service interfaces. Set only the method
// fields your test needs; an unset method that gets called panics, which
// fails the test loudly.

type mockTripServicer struct {
	create  func(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int, error)
	patch   func(ctx context.Context, id uuid.UUID, requester domain.Identity, patch domain.TripPatch) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error) {
	return m.create(ctx, cmd)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int, error) {
	return m.list(ctx, filter, page)
}
func (m *mockTripServicer) Patch(ctx context.Context, id uuid.UUID, requester domain.Identity, patch domain.TripPatch) (domain.Trip, error) {
	return m.patch(ctx, id, requester, patch)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockBookingServicer struct {
	create         func(ctx context.Context, cmd service.CreateBookingCommand) (domain.Booking, error)
	getByReference func(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	cancel         func(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	pay            func(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	manifest       func(ctx context.Context, tripID uuid.UUID, requester domain.Identity) ([]domain.ManifestRow, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, cmd service.CreateBookingCommand) (domain.Booking, error) {
	return m.create(ctx, cmd)
}
func (m *mockBookingServicer) GetByReference(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	return m.getByReference(ctx, reference, requester)
}
func (m *mockBookingServicer) Cancel(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	return m.cancel(ctx, reference, requester)
}
func (m *mockBookingServicer) Pay(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error) {
	return m.pay(ctx, reference, requester)
}
func (m *mockBookingServicer) Manifest(ctx context.Context, tripID uuid.UUID, requester domain.Identity) ([]domain.ManifestRow, error) {
	return m.manifest(ctx, tripID, requester)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockTrackingServicer struct {
	report        func(ctx context.Context, tripID uuid.UUID, requester domain.Identity, lat, lng float64, label string) (time.Time, error)
	snapshot      func(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error)
	stopBroadcast func(ctx context.Context, tripID uuid.UUID, requester domain.Identity) error
}

func (m *mockTrackingServicer) Report(ctx context.Context, tripID uuid.UUID, requester domain.Identity, lat, lng float64, label string) (time.Time, error) {
	return m.report(ctx, tripID, requester, lat, lng, label)
}
func (m *mockTrackingServicer) Snapshot(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error) {
	return m.snapshot(ctx, tripID)
}
func (m *mockTrackingServicer) StopBroadcast(ctx context.Context, tripID uuid.UUID, requester domain.Identity) error {
	return m.stopBroadcast(ctx, tripID, requester)
}

var _ handler.TrackingServicer = (*mockTrackingServicer)(nil)

// testSecret signs the tokens handler tests send through the real auth middleware.
var testSecret = []byte("handler-test-secret")

// newRouter wires a Server with the given mocks into the chi router exactly
// the way main.go does.
func newRouter(trips handler.TripServicer, bookings handler.BookingServicer, tracking handler.TrackingServicer) http.Handler {
	return handler.NewServer(trips, bookings, tracking).Routes(testSecret)
}
