package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/middleware"
)

// errorDetail is the body of every non-2xx response: a stable machine code
// plus a human-readable message.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeDomainError maps the shared error taxonomy onto HTTP statuses. The
// mapping is fixed so clients can branch on status plus code rather than
// parse messages.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrInsufficientCapacity):
		writeError(w, http.StatusConflict, "insufficient_capacity", unwrapMessage(err))
	case errors.Is(err, domain.ErrSeatConflict):
		writeError(w, http.StatusConflict, "seat_conflict", unwrapMessage(err))
	case errors.Is(err, domain.ErrTripInactive):
		writeError(w, http.StatusConflict, "trip_inactive", unwrapMessage(err))
	case errors.Is(err, domain.ErrTerminalState):
		writeError(w, http.StatusConflict, "terminal_state", unwrapMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", unwrapMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// unwrapMessage strips the "service.X.Y: " call-site prefixes that services
// add for logs, leaving the part meant for API clients.
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		rest, found := strings.CutPrefix(msg, "service.")
		if !found {
			return msg
		}
		_, after, ok := strings.Cut(rest, ": ")
		if !ok {
			return msg
		}
		msg = after
	}
}

// identityOr401 pulls the authenticated identity from the context; its
// absence means the route was mounted without RequireAuth, which is a wiring
// bug, but the client still gets a clean 401.
func identityOr401(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credentials")
		return domain.Identity{}, false
	}
	return identity, true
}

// pathUUID parses a UUID path parameter, responding 404 on garbage. A
// malformed ID can never name an existing resource, so 404 keeps the
// not-found behavior uniform.
func pathUUID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "no such resource")
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
