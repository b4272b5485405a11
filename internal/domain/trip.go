// Package domain contains the core data types for the Vadtrans booking API.
// This package has zero heavy dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the transport category of a trip. The set is closed.
type Category string

const (
	CategoryInterState    Category = "inter_state"
	CategoryIntraState    Category = "intra_state"
	CategoryInternational Category = "international"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryInterState, CategoryIntraState, CategoryInternational:
		return true
	}
	return false
}

// TripStatus is the publication status of a trip. Trips are never physically
// deleted while bookings reference them; deactivation is the only removal.
type TripStatus string

const (
	TripActive   TripStatus = "active"
	TripInactive TripStatus = "inactive"
)

// Trip represents one scheduled departure offered by an operator.
// TotalSeats and the seat layout are fixed at creation; SeatsRemaining is the
// live counter decremented by bookings and restored by cancellations.
// Invariant: 0 <= SeatsRemaining <= TotalSeats.
type Trip struct {
	ID              uuid.UUID  `json:"id"`
	OperatorID      uuid.UUID  `json:"operator_id"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	Category        Category   `json:"category"`
	DepartureAt     time.Time  `json:"departure_at"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"` // nil when the operator gave no estimate
	TotalSeats      int        `json:"total_seats"`
	SeatsRemaining  int        `json:"seats_remaining"`
	PricePerSeat    int64      `json:"price_per_seat"`
	Status          TripStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TripPatch carries the operator-editable trip fields for a partial update.
// Nil pointers mean "leave unchanged".
type TripPatch struct {
	PricePerSeat *int64
	Status       *TripStatus
}

// TripFilter narrows a trip listing. Zero values mean "no constraint".
type TripFilter struct {
	Origin      string
	Destination string
	Category    Category
	// ActiveOnly hides deactivated trips; the traveler search surface always
	// sets it, operator consoles do not.
	ActiveOnly bool
}
