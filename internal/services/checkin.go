package services

import (
	"context"
	"fmt"
	"time"

	"hackathon-badges/internal/metrics"
	"hackathon-badges/internal/models"
	"hackathon-badges/internal/repository"

	"github.com/rs/zerolog/log"
)

// CheckinService handles venue check-in and check-out
type CheckinService struct {
	store   repository.Store
	metrics metrics.Recorder
	now     func() time.Time
}

// NewCheckinService creates a new check-in service
func NewCheckinService(store repository.Store, recorder metrics.Recorder) *CheckinService {
	return &CheckinService{
		store:   store,
		metrics: recorder,
		now:     now,
	}
}

// CheckIn opens a session for the badge
func (s *CheckinService) CheckIn(ctx context.Context, badgeCode string) (*models.CheckinResponse, error) {
	var session *models.CheckinSession
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		if err := requireAttendee(ctx, r, badgeCode); err != nil {
			return err
		}

		var err error
		session, err = r.Checkins.Create(ctx, badgeCode, s.now())
		if err != nil {
			return fmt.Errorf("failed to check in: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCheckin()
	return &models.CheckinResponse{
		BadgeCode:   session.BadgeCode,
		CheckinTime: session.CheckinTime,
	}, nil
}

// CheckOut closes every open session of the badge. It succeeds even when
// nothing was open.
func (s *CheckinService) CheckOut(ctx context.Context, badgeCode string) (*models.CheckoutResponse, error) {
	checkoutTime := s.now()
	var closed int64
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		if err := requireAttendee(ctx, r, badgeCode); err != nil {
			return err
		}

		var err error
		closed, err = r.Checkins.CloseOpen(ctx, badgeCode, checkoutTime)
		if err != nil {
			return fmt.Errorf("failed to check out: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("badge_code", badgeCode).
		Int64("closed_sessions", closed).
		Msg("Checked out")

	s.metrics.RecordCheckout(closed)
	return &models.CheckoutResponse{
		BadgeCode:    badgeCode,
		CheckoutTime: checkoutTime,
	}, nil
}

// ListCheckins returns every session
func (s *CheckinService) ListCheckins(ctx context.Context) ([]*models.CheckinSession, error) {
	var sessions []*models.CheckinSession
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		var err error
		sessions, err = r.Checkins.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	if sessions == nil {
		sessions = []*models.CheckinSession{}
	}
	return sessions, nil
}

func requireAttendee(ctx context.Context, r repository.Repositories, badgeCode string) error {
	exists, err := r.Attendees.Exists(ctx, badgeCode)
	if err != nil {
		return fmt.Errorf("failed to check attendee: %w", err)
	}
	if !exists {
		return NewNotFoundError("User not found")
	}
	return nil
}
