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

// FrequencyQuery holds the optional filters of the scan statistics. Nil means no filter.
type FrequencyQuery struct {
	Category     string
	MinFrequency *int
	MaxFrequency *int
}

// ClusterQuery holds the options of the time-bucketed scan statistics
type ClusterQuery struct {
	TimeUnit  string
	Activity  string
	StartTime string
	EndTime   string
}

// ScanService handles scan recording and statistics
type ScanService struct {
	store   repository.Store
	metrics metrics.Recorder
	now     func() time.Time
}

// NewScanService creates a new scan service
func NewScanService(store repository.Store, recorder metrics.Recorder) *ScanService {
	return &ScanService{
		store:   store,
		metrics: recorder,
		now:     now,
	}
}

// RecordScan stores a scan for the badge and touches the attendee
func (s *ScanService) RecordScan(ctx context.Context, badgeCode string, req models.ScanRequest) (*models.Scan, error) {
	var scan *models.Scan
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		if err := requireAttendee(ctx, r, badgeCode); err != nil {
			return err
		}

		if req.ActivityName == "" || req.ActivityCategory == "" {
			return NewInvalidInputError("Missing activity_name or activity_category")
		}

		scan = &models.Scan{
			BadgeCode:        badgeCode,
			ActivityName:     req.ActivityName,
			ActivityCategory: req.ActivityCategory,
			ScannedAt:        s.now(),
		}
		if err := r.Scans.Create(ctx, scan); err != nil {
			return fmt.Errorf("failed to record scan: %w", err)
		}

		// The scan is already durable; a failed touch only leaves updated_at stale.
		if err := r.Attendees.Touch(ctx, badgeCode, scan.ScannedAt); err != nil {
			log.Warn().
				Err(err).
				Str("badge_code", badgeCode).
				Int64("scan_id", scan.ID).
				Msg("Failed to touch attendee after scan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordScan()
	return scan, nil
}

// Frequencies counts scans per activity
func (s *ScanService) Frequencies(ctx context.Context, q FrequencyQuery) ([]models.ScanFrequency, error) {
	filter := repository.FrequencyFilter{
		MinFrequency: q.MinFrequency,
		MaxFrequency: q.MaxFrequency,
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}

	var result []models.ScanFrequency
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		var err error
		result, err = r.Scans.Frequencies(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get scan statistics: %w", err)
	}
	return result, nil
}

// Clusters counts scans per activity inside hour or minute buckets
func (s *ScanService) Clusters(ctx context.Context, q ClusterQuery) ([]models.ScanCluster, error) {
	filter := repository.ClusterFilter{
		Unit:     q.TimeUnit,
		Activity: q.Activity,
	}
	if filter.Unit == "" {
		filter.Unit = repository.DefaultTimeUnit
	}
	if !repository.ValidTimeUnit(filter.Unit) {
		return nil, NewInvalidInputError("Invalid time_unit")
	}

	if q.StartTime != "" {
		start, err := models.ParseTimestamp(q.StartTime)
		if err != nil {
			return nil, NewInvalidInputError("Invalid start_time")
		}
		filter.Start = &start
	}
	if q.EndTime != "" {
		end, err := models.ParseTimestamp(q.EndTime)
		if err != nil {
			return nil, NewInvalidInputError("Invalid end_time")
		}
		filter.End = &end
	}

	var result []models.ScanCluster
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		var err error
		result, err = r.Scans.Clusters(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cluster scans: %w", err)
	}
	return result, nil
}
