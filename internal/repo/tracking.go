package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
)

// TrackingStore holds the latest-known position per trip. Writes are
// last-writer-wins with no merge: only one device (the assigned vehicle) is
// expected to report for a trip at a time, so each report simply replaces the
// previous snapshot.
//
// Position updates are high-frequency and disposable, which is why they live
// in Redis rather than the trips table. A vehicle reporting every few seconds
// shouldn't churn Postgres rows that bookings contend on.
type TrackingStore interface {
	// Write overwrites the trip's snapshot unconditionally.
	Write(ctx context.Context, tripID uuid.UUID, snap domain.TrackingSnapshot) error

	// Read returns the latest snapshot. When the operator has never
	// broadcast, it returns a zero snapshot with Broadcasting=false and a
	// nil error. "No location yet" is a result, not a failure.
	Read(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error)

	// SetIdle flips the snapshot's status to idle so pollers stop.
	// A trip that never broadcast is already idle; SetIdle is a no-op then.
	SetIdle(ctx context.Context, tripID uuid.UUID) error
}

// redisTrackingStore is the Redis implementation of TrackingStore.
type redisTrackingStore struct {
	rdb *redis.Client
}

// NewTrackingStore constructs a TrackingStore backed by the provided Redis client.
func NewTrackingStore(rdb *redis.Client) TrackingStore {
	return &redisTrackingStore{rdb: rdb}
}

func trackingKey(tripID uuid.UUID) string {
	return "tracking:" + tripID.String()
}

// Write marshals the snapshot and SETs it, replacing whatever was there.
func (s *redisTrackingStore) Write(ctx context.Context, tripID uuid.UUID, snap domain.TrackingSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("repo.TrackingStore.Write: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, trackingKey(tripID), payload, 0).Err(); err != nil {
		return fmt.Errorf("repo.TrackingStore.Write: %w", err)
	}
	return nil
}

// Read fetches and unmarshals the snapshot; absence maps to "not broadcasting".
func (s *redisTrackingStore) Read(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error) {
	val, err := s.rdb.Get(ctx, trackingKey(tripID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.TrackingSnapshot{Broadcasting: false}, nil
	}
	if err != nil {
		return domain.TrackingSnapshot{}, fmt.Errorf("repo.TrackingStore.Read: %w", err)
	}

	var snap domain.TrackingSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return domain.TrackingSnapshot{}, fmt.Errorf("repo.TrackingStore.Read: unmarshal: %w", err)
	}
	return snap, nil
}

// SetIdle rewrites the stored snapshot with status=idle, keeping the last
// position visible to consumers.
func (s *redisTrackingStore) SetIdle(ctx context.Context, tripID uuid.UUID) error {
	snap, err := s.Read(ctx, tripID)
	if err != nil {
		return fmt.Errorf("repo.TrackingStore.SetIdle: %w", err)
	}
	if !snap.Broadcasting {
		return nil
	}
	snap.Status = domain.BroadcastIdle
	return s.Write(ctx, tripID, snap)
}
