package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
	"github.com/Sucrepapii/Vadtrans-sub000/internal/repo"
)

// TrackingService handles live location ingest and poll-based reads. Writes
// are restricted to the trip's owning operator; reads are open to anyone who
// can see the trip.
type TrackingService struct {
	trips        repo.TripRepo
	store        repo.TrackingStore
	pollInterval time.Duration

	now func() time.Time
}

// NewTrackingService constructs a TrackingService. pollInterval is the
// default cadence for Poll when the caller does not supply one.
func NewTrackingService(trips repo.TripRepo, store repo.TrackingStore, pollInterval time.Duration) *TrackingService {
	return &TrackingService{
		trips:        trips,
		store:        store,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// Report ingests one location fix from the operator's device and returns the
// server timestamp recorded with it. Each report overwrites the previous one:
// the store keeps only the latest fix per trip.
func (s *TrackingService) Report(ctx context.Context, tripID uuid.UUID, requester domain.Identity, lat, lng float64, label string) (time.Time, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return time.Time{}, fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return time.Time{}, fmt.Errorf("service.TrackingService.Report: %w", err)
	}
	if trip.OperatorID != requester.UserID {
		return time.Time{}, fmt.Errorf("service.TrackingService.Report: %w", domain.ErrForbidden)
	}
	if trip.Status != domain.TripActive {
		return time.Time{}, fmt.Errorf("service.TrackingService.Report: %w", domain.ErrTripInactive)
	}

	at := s.now().UTC()
	snap := domain.TrackingSnapshot{
		Broadcasting: true,
		Lat:          lat,
		Lng:          lng,
		Label:        label,
		Status:       domain.BroadcastActive,
		ReportedAt:   at,
	}
	if err := s.store.Write(ctx, tripID, snap); err != nil {
		return time.Time{}, fmt.Errorf("service.TrackingService.Report: %w", err)
	}
	return at, nil
}

// Snapshot returns the latest known position for a trip. A trip that has
// never broadcast yields Broadcasting=false rather than an error.
func (s *TrackingService) Snapshot(ctx context.Context, tripID uuid.UUID) (domain.TrackingSnapshot, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.TrackingSnapshot{}, fmt.Errorf("service.TrackingService.Snapshot: %w", err)
	}
	snap, err := s.store.Read(ctx, tripID)
	if err != nil {
		return domain.TrackingSnapshot{}, fmt.Errorf("service.TrackingService.Snapshot: %w", err)
	}
	return snap, nil
}

// StopBroadcast marks the trip's broadcast idle, preserving the last fix so
// late pollers still see where the vehicle stopped reporting.
func (s *TrackingService) StopBroadcast(ctx context.Context, tripID uuid.UUID, requester domain.Identity) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TrackingService.StopBroadcast: %w", err)
	}
	if trip.OperatorID != requester.UserID && !requester.IsAdmin() {
		return fmt.Errorf("service.TrackingService.StopBroadcast: %w", domain.ErrForbidden)
	}
	if err := s.store.SetIdle(ctx, tripID); err != nil {
		return fmt.Errorf("service.TrackingService.StopBroadcast: %w", err)
	}
	return nil
}

// Poll reads the trip's snapshot on a fixed cadence and hands each one to fn.
// It returns nil once the broadcast goes idle or the trip stops being active,
// and ctx.Err() when the caller's context ends. fn runs on the polling
// goroutine, so it should return quickly.
func (s *TrackingService) Poll(ctx context.Context, tripID uuid.UUID, interval time.Duration, fn func(domain.TrackingSnapshot)) error {
	if interval <= 0 {
		interval = s.pollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		trip, err := s.trips.GetByID(ctx, tripID)
		if err != nil {
			return fmt.Errorf("service.TrackingService.Poll: %w", err)
		}

		snap, err := s.store.Read(ctx, tripID)
		if err != nil {
			return fmt.Errorf("service.TrackingService.Poll: %w", err)
		}
		fn(snap)

		if trip.Status != domain.TripActive {
			return nil
		}
		if snap.Broadcasting && snap.Status == domain.BroadcastIdle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
