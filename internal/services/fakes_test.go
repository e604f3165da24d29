package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"hackathon-badges/internal/models"
	"hackathon-badges/internal/repository"
)

// memStore is an in-memory repository.Store for service tests
type memStore struct {
	attendees map[string]*models.Attendee
	scans     []models.Scan
	checkins  []*models.CheckinSession
	// failWith, when set, is returned by every repository call
	failWith error
	// lastFrequency and lastCluster capture the filters passed to the store
	lastFrequency *repository.FrequencyFilter
	lastCluster   *repository.ClusterFilter
	conns         int
}

func newMemStore(badges ...string) *memStore {
	s := &memStore{attendees: make(map[string]*models.Attendee)}
	for _, b := range badges {
		s.attendees[b] = &models.Attendee{
			BadgeCode: b,
			Name:      "Attendee " + b,
			Email:     b + "@example.com",
			UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return s
}

func (s *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Attendees: (*memAttendees)(s),
		Scans:     (*memScans)(s),
		Checkins:  (*memCheckins)(s),
	}
}

func (s *memStore) WithConn(ctx context.Context, fn func(repository.Repositories) error) error {
	s.conns++
	return fn(s.repos())
}

func (s *memStore) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return s.WithConn(ctx, fn)
}

func (s *memStore) Ping(ctx context.Context) error {
	return s.failWith
}

type memAttendees memStore

func (m *memAttendees) List(ctx context.Context) ([]*models.Attendee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*models.Attendee
	for _, a := range m.attendees {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeCode < out[j].BadgeCode })
	return out, nil
}

func (m *memAttendees) GetByBadgeCode(ctx context.Context, badgeCode string) (*models.Attendee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.attendees[badgeCode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAttendees) Exists(ctx context.Context, badgeCode string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.attendees[badgeCode]
	return ok, nil
}

func (m *memAttendees) Update(ctx context.Context, badgeCode string, fields []repository.FieldUpdate, updatedAt time.Time) error {
	a, ok := m.attendees[badgeCode]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range fields {
		switch f.Column {
		case "name":
			a.Name = f.Value
		case "email":
			a.Email = f.Value
		case "phone":
			a.Phone = f.Value
		default:
			return errors.New("column not updatable")
		}
	}
	a.UpdatedAt = updatedAt
	return nil
}

func (m *memAttendees) Touch(ctx context.Context, badgeCode string, updatedAt time.Time) error {
	a, ok := m.attendees[badgeCode]
	if !ok {
		return repository.ErrNotFound
	}
	a.UpdatedAt = updatedAt
	return nil
}

func (m *memAttendees) InsertIgnore(ctx context.Context, a *models.Attendee) (bool, error) {
	if _, ok := m.attendees[a.BadgeCode]; ok {
		return false, nil
	}
	cp := *a
	m.attendees[a.BadgeCode] = &cp
	return true, nil
}

type memScans memStore

func (m *memScans) Create(ctx context.Context, scan *models.Scan) error {
	scan.ID = int64(len(m.scans) + 1)
	m.scans = append(m.scans, *scan)
	return nil
}

func (m *memScans) ListByBadgeCode(ctx context.Context, badgeCode string) ([]models.ScanSummary, error) {
	var out []models.ScanSummary
	for _, s := range m.scans {
		if s.BadgeCode == badgeCode {
			out = append(out, models.ScanSummary{ActivityName: s.ActivityName, ActivityCategory: s.ActivityCategory, ScannedAt: s.ScannedAt})
		}
	}
	return out, nil
}

func (m *memScans) ListGroupedByBadgeCode(ctx context.Context) (map[string][]models.ScanSummary, error) {
	out := make(map[string][]models.ScanSummary)
	for _, s := range m.scans {
		out[s.BadgeCode] = append(out[s.BadgeCode], models.ScanSummary{ActivityName: s.ActivityName, ActivityCategory: s.ActivityCategory, ScannedAt: s.ScannedAt})
	}
	return out, nil
}

func (m *memScans) Frequencies(ctx context.Context, filter repository.FrequencyFilter) ([]models.ScanFrequency, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.lastFrequency = &filter

	type key struct{ name, category string }
	counts := make(map[key]int64)
	for _, s := range m.scans {
		if filter.Category != nil && s.ActivityCategory != *filter.Category {
			continue
		}
		counts[key{s.ActivityName, s.ActivityCategory}]++
	}

	out := []models.ScanFrequency{}
	for k, n := range counts {
		if filter.MinFrequency != nil && n < int64(*filter.MinFrequency) {
			continue
		}
		if filter.MaxFrequency != nil && n > int64(*filter.MaxFrequency) {
			continue
		}
		out = append(out, models.ScanFrequency{ActivityName: k.name, ActivityCategory: k.category, Frequency: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].ActivityName < out[j].ActivityName
	})
	return out, nil
}

func (m *memScans) Clusters(ctx context.Context, filter repository.ClusterFilter) ([]models.ScanCluster, error) {
	m.lastCluster = &filter
	return []models.ScanCluster{}, nil
}

type memCheckins memStore

func (m *memCheckins) Create(ctx context.Context, badgeCode string, checkinTime time.Time) (*models.CheckinSession, error) {
	s := &models.CheckinSession{ID: int64(len(m.checkins) + 1), BadgeCode: badgeCode, CheckinTime: checkinTime}
	m.checkins = append(m.checkins, s)
	return s, nil
}

func (m *memCheckins) CloseOpen(ctx context.Context, badgeCode string, checkoutTime time.Time) (int64, error) {
	var closed int64
	for _, s := range m.checkins {
		if s.BadgeCode == badgeCode && s.CheckoutTime == nil {
			out := checkoutTime
			s.CheckoutTime = &out
			closed++
		}
	}
	return closed, nil
}

func (m *memCheckins) List(ctx context.Context) ([]*models.CheckinSession, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.checkins, nil
}

// recorder captures metric events
type recorder struct {
	scans     int
	checkins  int
	checkouts []int64
}

func (r *recorder) RecordScan() { r.scans++ }
func (r *recorder) RecordCheckin() { r.checkins++ }
func (r *recorder) RecordCheckout(closed int64) { r.checkouts = append(r.checkouts, closed) }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
