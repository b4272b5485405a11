// Package fare computes the financial snapshot of a booking: subtotal,
// platform service fee, and total. All functions are pure; amounts are whole
// units of the platform currency.
package fare

import "math"

const (
	// FeePercent is the service fee rate applied to the subtotal.
	FeePercent = 0.02
	// FeeFloor is the minimum service fee. Every booking carries at least
	// this much, including zero-subtotal bookings.
	FeeFloor int64 = 50
	// FeeCeiling is the maximum service fee.
	FeeCeiling int64 = 500
)

// Quote is the frozen financial snapshot persisted with a booking.
type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Total      int64 `json:"total"`
}

// ServiceFee returns the platform fee for a subtotal: FeePercent of the
// subtotal rounded to the nearest whole unit, clamped to [FeeFloor, FeeCeiling].
// A zero or negative subtotal yields the floor, not zero.
func ServiceFee(subtotal int64) int64 {
	if subtotal <= 0 {
		return FeeFloor
	}
	fee := int64(math.Round(float64(subtotal) * FeePercent))
	if fee < FeeFloor {
		return FeeFloor
	}
	if fee > FeeCeiling {
		return FeeCeiling
	}
	return fee
}

// NewQuote computes the full snapshot for pricePerSeat × seats.
func NewQuote(pricePerSeat int64, seats int) Quote {
	subtotal := pricePerSeat * int64(seats)
	fee := ServiceFee(subtotal)
	return Quote{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
	}
}
