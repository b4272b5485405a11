package domain

import "time"

// BroadcastStatus is the trip-activity flag of the tracking state:
// "active" while the operator's device is reporting positions, "idle" before
// the first report and after the operator stops broadcasting.
type BroadcastStatus string

const (
	BroadcastActive BroadcastStatus = "active"
	BroadcastIdle   BroadcastStatus = "idle"
)

// TrackingSnapshot is the latest reported position for a trip in transit.
// Each report from the vehicle overwrites the previous snapshot unconditionally
// (last-writer-wins); only one device per trip is expected to write.
//
// Broadcasting is false when the operator has never reported a position;
// consumers must treat the positional fields as meaningless in that case.
// Staleness is observable through ReportedAt and is never hidden.
type TrackingSnapshot struct {
	Broadcasting bool            `json:"broadcasting"`
	Lat          float64         `json:"lat,omitempty"`
	Lng          float64         `json:"lng,omitempty"`
	Label        string          `json:"label,omitempty"` // free-text location label, e.g. "Lokoja toll gate"
	Status       BroadcastStatus `json:"status,omitempty"`
	ReportedAt   time.Time       `json:"reported_at,omitzero"`
}
