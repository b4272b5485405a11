package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type reportLocationRequest struct {
	Lat   float64 `json:"lat" validate:"min=-90,max=90"`
	Lng   float64 `json:"lng" validate:"min=-180,max=180"`
	Label string  `json:"label"`
}

type reportLocationResponse struct {
	ReportedAt time.Time `json:"reported_at"`
}

// ReportLocation handles POST /trips/{id}/tracking: one position fix from the
// assigned vehicle's device.
func (s *Server) ReportLocation(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req reportLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	at, err := s.tracking.Report(r.Context(), id, identity, req.Lat, req.Lng, req.Label)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, reportLocationResponse{ReportedAt: at})
}

// GetTracking handles GET /trips/{id}/tracking: the latest snapshot for
// pollers. A trip that never broadcast returns broadcasting=false, not 404.
func (s *Server) GetTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	snap, err := s.tracking.Snapshot(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// StopTracking handles DELETE /trips/{id}/tracking: the operator ends the
// broadcast, leaving the last fix readable.
func (s *Server) StopTracking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := s.tracking.StopBroadcast(r.Context(), id, identity); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
