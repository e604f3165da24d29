package seed

import (
	"context"
	"fmt"
	"time"

	"hackathon-badges/internal/repository"

	"github.com/rs/zerolog/log"
)

// Result summarizes a seeding run
type Result struct {
	AttendeesInserted int `json:"attendees_inserted"`
	// AttendeesExisting counts badges already present
	AttendeesExisting int `json:"attendees_existing"`
	// AttendeesRejected counts new badges dropped by another unique constraint
	AttendeesRejected int `json:"attendees_rejected"`
	// ParticipantsSkipped counts roster entries without a badge code
	ParticipantsSkipped int `json:"participants_skipped"`
	ScansInserted       int `json:"scans_inserted"`
}

// Seeder writes participants and their scans in a single transaction
type Seeder struct {
	store repository.Store
	now   func() time.Time
}

// NewSeeder creates a new seeder
func NewSeeder(store repository.Store) *Seeder {
	return &Seeder{
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Run inserts participants that are not yet known and appends every scan.
// Scans of an already known badge are still appended, so running twice
// duplicates them.
func (s *Seeder) Run(ctx context.Context, participants []Participant) (Result, error) {
	var result Result

	entries, skipped, err := prepare(participants, s.now())
	if err != nil {
		return result, err
	}
	result.ParticipantsSkipped = skipped

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		for i := range entries {
			e := &entries[i]

			inserted, err := r.Attendees.InsertIgnore(ctx, &e.attendee)
			if err != nil {
				return fmt.Errorf("failed to insert attendee %s: %w", e.attendee.BadgeCode, err)
			}
			if !inserted {
				exists, err := r.Attendees.Exists(ctx, e.attendee.BadgeCode)
				if err != nil {
					return fmt.Errorf("failed to check attendee %s: %w", e.attendee.BadgeCode, err)
				}
				if !exists {
					result.AttendeesRejected++
					log.Warn().
						Str("badge_code", e.attendee.BadgeCode).
						Int("scans", len(e.scans)).
						Msg("Skipping attendee rejected by a conflict")
					continue
				}
				result.AttendeesExisting++
			} else {
				result.AttendeesInserted++
			}

			for j := range e.scans {
				if err := r.Scans.Create(ctx, &e.scans[j]); err != nil {
					return fmt.Errorf("failed to insert scan for %s: %w", e.attendee.BadgeCode, err)
				}
				result.ScansInserted++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
