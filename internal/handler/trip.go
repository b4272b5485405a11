package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/service"
)

type createTripRequest struct {
	Origin          string    `json:"origin" validate:"required"`
	Destination     string    `json:"destination" validate:"required"`
	Category        string    `json:"category" validate:"required,oneof=inter_state intra_state international"`
	DepartureAt     time.Time `json:"departure_at" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,min=1"`
	TotalSeats      int       `json:"total_seats" validate:"required,min=1"`
	PricePerSeat    int64     `json:"price_per_seat" validate:"min=0"`
}

type patchTripRequest struct {
	PricePerSeat *int64  `json:"price_per_seat" validate:"omitempty,min=0"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type tripListResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination pagination    `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	trip, err := s.trips.Create(r.Context(), service.CreateTripCommand{
		Requester:       identity,
		Origin:          req.Origin,
		Destination:     req.Destination,
		Category:        domain.Category(req.Category),
		DepartureAt:     req.DepartureAt,
		DurationMinutes: req.DurationMinutes,
		TotalSeats:      req.TotalSeats,
		PricePerSeat:    req.PricePerSeat,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /trips.
// Filters: ?origin= ?destination= ?category= ?active=true. Pagination via
// ?page= and ?limit= (defaults page=1 limit=20, max 100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.TripFilter{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		Category:    domain.Category(q.Get("category")),
		ActiveOnly:  q.Get("active") == "true",
	}
	params := domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))

	trips, total, err := s.trips.List(r.Context(), filter, params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripListResponse{
		Data:       trips,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// PatchTrip handles PATCH /trips/{id}. Only price and status are editable
// after publication.
func (s *Server) PatchTrip(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req patchTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	patch := domain.TripPatch{PricePerSeat: req.PricePerSeat}
	if req.Status != nil {
		status := domain.TripStatus(*req.Status)
		patch.Status = &status
	}

	trip, err := s.trips.Patch(r.Context(), id, identity, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// queryInt parses a positive query integer; nil means "not provided".
func queryInt(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
