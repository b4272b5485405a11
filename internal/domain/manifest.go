package domain

// ManifestRow is one line of a trip's passenger manifest: a flat,
// denormalized view with one row per passenger across all non-cancelled
// bookings. Operators print this for the driver before departure.
type ManifestRow struct {
	Reference     string        `json:"reference"`
	PassengerName string        `json:"passenger_name"`
	Contact       string        `json:"contact"`
	DocumentRef   string        `json:"document_ref"`
	SeatLabel     string        `json:"seat_label"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}
