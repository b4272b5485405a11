package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus tracks the reservation lifecycle. Cancelled and completed are
// terminal; no further mutation is allowed once either is reached.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether s permits no further status changes.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// PaymentStatus is tracked independently of BookingStatus. Payment here is
// simulated; there is no external processor.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Passenger is one entry in a booking's passenger list. The list is ordered
// and its length equals the seat count of the booking; it never changes after
// creation.
type Passenger struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	DocumentRef string `json:"document_ref,omitempty"` // identity-document reference, optional
}

// Booking is an immutable record of a successful reservation.
//
// Subtotal, ServiceFee, and Total are frozen at creation time and are never
// recomputed, even if the trip's price-per-seat is later edited. Seats[i] is
// the seat label assigned to Passengers[i].
type Booking struct {
	ID         uuid.UUID `json:"id"`
	Reference  string    `json:"reference"`
	TripID     uuid.UUID `json:"trip_id"`
	TravelerID uuid.UUID `json:"traveler_id"`

	Passengers []Passenger `json:"passengers"`
	Seats      []string    `json:"seats"`

	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Total      int64 `json:"total"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
