package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing passenger name, empty passenger list).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInsufficientCapacity is returned by the seat reservation when a trip has
// fewer seats remaining than the requested passenger count. Distinct from
// ErrValidation so a UI can offer "choose fewer seats" instead of "fix this
// field". Handlers should map this to HTTP 409.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// ErrSeatConflict is returned when a requested seat label is already held by
// another non-cancelled booking on the same trip.
// Handlers should map this to HTTP 409.
var ErrSeatConflict = errors.New("seat already taken")

// ErrTripInactive is returned when an operation requires an active trip
// (booking it, broadcasting its location) but the trip has been deactivated.
// Handlers should map this to HTTP 409.
var ErrTripInactive = errors.New("trip inactive")

// ErrForbidden is returned when the caller is not allowed to act on the
// resource (wrong operator for a trip, wrong traveler for a booking).
// The message deliberately carries no detail about the resource, so an
// unauthorized caller learns nothing beyond the denial itself.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrTerminalState is returned when a state change targets a booking that is
// already cancelled or completed. No mutation is performed.
// Handlers should map this to HTTP 409.
var ErrTerminalState = errors.New("booking already in a terminal state")
