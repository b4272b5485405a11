package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/service"
)

type passengerRequest struct {
	Name        string `json:"name" validate:"required"`
	Contact     string `json:"contact" validate:"required"`
	DocumentRef string `json:"document_ref"`
}

type createBookingRequest struct {
	TripID     string             `json:"trip_id" validate:"required,uuid"`
	Passengers []passengerRequest `json:"passengers" validate:"required,min=1,dive"`
	Seats      []string           `json:"seats"`

	// Total echoes what the client's UI displayed. The server recomputes
	// the real figures; a mismatch does not fail the booking.
	Total *int64 `json:"total"`
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "trip_id must be a UUID")
		return
	}

	passengers := make([]domain.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = domain.Passenger{Name: p.Name, Contact: p.Contact, DocumentRef: p.DocumentRef}
	}

	booking, err := s.bookings.Create(r.Context(), service.CreateBookingCommand{
		TripID:      tripID,
		Requester:   identity,
		Passengers:  passengers,
		SeatLabels:  req.Seats,
		ClientTotal: req.Total,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /bookings/{reference}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.GetByReference(r.Context(), chi.URLParam(r, "reference"), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CancelBooking handles POST /bookings/{reference}/cancel.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.Cancel(r.Context(), chi.URLParam(r, "reference"), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// PayBooking handles POST /bookings/{reference}/pay.
func (s *Server) PayBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.Pay(r.Context(), chi.URLParam(r, "reference"), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
