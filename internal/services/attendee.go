package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hackathon-badges/internal/models"
	"hackathon-badges/internal/repository"
)

// updatableFields lists the attendee fields a client may change, in the order they are applied
var updatableFields = []string{"name", "email", "phone"}

// AttendeeService handles attendee directory logic
type AttendeeService struct {
	store repository.Store
	now   func() time.Time
}

// NewAttendeeService creates a new attendee service
func NewAttendeeService(store repository.Store) *AttendeeService {
	return &AttendeeService{
		store: store,
		now:   now,
	}
}

// ListAttendees returns every attendee with its scans
func (s *AttendeeService) ListAttendees(ctx context.Context) ([]*models.Attendee, error) {
	var attendees []*models.Attendee
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		var err error
		attendees, err = r.Attendees.List(ctx)
		if err != nil {
			return err
		}

		scans, err := r.Scans.ListGroupedByBadgeCode(ctx)
		if err != nil {
			return err
		}

		for _, a := range attendees {
			a.Scans = scans[a.BadgeCode]
			if a.Scans == nil {
				a.Scans = []models.ScanSummary{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}

	if attendees == nil {
		attendees = []*models.Attendee{}
	}
	return attendees, nil
}

// GetAttendee returns one attendee with its scans
func (s *AttendeeService) GetAttendee(ctx context.Context, badgeCode string) (*models.Attendee, error) {
	var attendee *models.Attendee
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		var err error
		attendee, err = loadAttendee(ctx, r, badgeCode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

// UpdateAttendee applies the recognized fields of a partial update. Unknown keys
// are ignored; an update carrying no recognized key is rejected.
func (s *AttendeeService) UpdateAttendee(ctx context.Context, badgeCode string, fields map[string]any) (*models.Attendee, error) {
	var attendee *models.Attendee
	err := s.store.WithConn(ctx, func(r repository.Repositories) error {
		if err := requireAttendee(ctx, r, badgeCode); err != nil {
			return err
		}

		updates, err := recognizedFields(fields)
		if err != nil {
			return err
		}

		if err := r.Attendees.Update(ctx, badgeCode, updates, s.now()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewNotFoundError("User not found")
			}
			return fmt.Errorf("failed to update attendee: %w", err)
		}

		attendee, err = loadAttendee(ctx, r, badgeCode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

func recognizedFields(fields map[string]any) ([]repository.FieldUpdate, error) {
	var updates []repository.FieldUpdate
	for _, name := range updatableFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return nil, NewInvalidInputError(fmt.Sprintf("%s must be a string", name))
		}
		updates = append(updates, repository.FieldUpdate{Column: name, Value: value})
	}

	if len(updates) == 0 {
		return nil, NewInvalidInputError("No valid fields to update")
	}
	return updates, nil
}

func loadAttendee(ctx context.Context, r repository.Repositories, badgeCode string) (*models.Attendee, error) {
	attendee, err := r.Attendees.GetByBadgeCode(ctx, badgeCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("Attendee not found")
		}
		return nil, fmt.Errorf("failed to get attendee: %w", err)
	}

	attendee.Scans, err = r.Scans.ListByBadgeCode(ctx, badgeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get scans: %w", err)
	}
	if attendee.Scans == nil {
		attendee.Scans = []models.ScanSummary{}
	}

	return attendee, nil
}
