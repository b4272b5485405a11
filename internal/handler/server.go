// Package handler implements the HTTP layer of the Vadtrans API. Handlers
// decode and validate requests, call a service interface, and map domain
// errors to HTTP statuses. Methods are split into domain-specific files
// (trip.go, booking.go, tracking.go) but all hang off the same Server struct.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/middleware"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/service"
)

// TripServicer defines the trip operations the handlers depend on. The
// interface lives here, in the consumer package, so handler tests can inject
// a mock without a database.
type TripServicer interface {
	Create(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, filter domain.TripFilter, page domain.PaginationParams) ([]domain.Trip, int, error)
	Patch(ctx context.Context, id uuid.UUID, requester domain.Identity, patch domain.TripPatch) (domain.Trip, error)
}

// BookingServicer defines the booking operations the handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, cmd service.CreateBookingCommand) (domain.Booking, error)
	GetByReference(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	Cancel(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	Pay(ctx context.Context, reference string, requester domain.Identity) (domain.Booking, error)
	Manifest(ctx context.Context, tripID uuid.UUID, requester domain.Identity) ([]domain.ManifestRow, error)
}

// TrackingServicer defines the live-tracking operations the handlers depend on.
type TrackingServicer interface {
	Report(ctx context.Context, tripID uuid.UUID, requester domain.Identity, lat, lng float64, label string) (time.Time, error)
	Snapshot(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error)
	StopBroadcast(ctx context.Context, tripID uuid.UUID, requester domain.Identity) error
}

// Server holds the handler dependencies.
type Server struct {
	trips    TripServicer
	bookings BookingServicer
	tracking TrackingServicer

	validate *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, bookings BookingServicer, tracking TrackingServicer) *Server {
	return &Server{
		trips:    trips,
		bookings: bookings,
		tracking: tracking,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts the API surface on a chi router. Inventory and tracking reads
// are public; everything that writes requires a bearer token.
func (s *Server) Routes(jwtSecret []byte) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Get("/trips", s.ListTrips)
	r.Get("/trips/{id}", s.GetTrip)
	r.Get("/trips/{id}/tracking", s.GetTracking)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))

		r.Post("/trips", s.CreateTrip)
		r.Patch("/trips/{id}", s.PatchTrip)
		r.Get("/trips/{id}/manifest", s.GetManifest)
		r.Post("/trips/{id}/tracking", s.ReportLocation)
		r.Delete("/trips/{id}/tracking", s.StopTracking)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/bookings/{reference}", s.GetBooking)
		r.Post("/bookings/{reference}/cancel", s.CancelBooking)
		r.Post("/bookings/{reference}/pay", s.PayBooking)
	})

	return r
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
