// Package seed loads the participant roster into the database.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"hackathon-badges/internal/models"
)

// Participant is one entry of the roster file
type Participant struct {
	BadgeCode string            `json:"badge_code"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Scans     []ParticipantScan `json:"scans"`
}

// ParticipantScan is a historical scan of a participant
type ParticipantScan struct {
	ActivityName     string `json:"activity_name"`
	ActivityCategory string `json:"activity_category"`
	ScannedAt        string `json:"scanned_at"`
}

// Decode reads a JSON array of participants
func Decode(r io.Reader) ([]Participant, error) {
	var participants []Participant
	if err := json.NewDecoder(r).Decode(&participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	return participants, nil
}

// entry is a participant converted to rows
type entry struct {
	attendee models.Attendee
	scans    []models.Scan
}

// prepare converts participants to rows. Participants without a badge code
// are dropped and counted; any malformed scan fails the whole roster.
func prepare(participants []Participant, now time.Time) ([]entry, int, error) {
	entries := make([]entry, 0, len(participants))
	skipped := 0

	for i, p := range participants {
		if p.BadgeCode == "" {
			skipped++
			continue
		}

		e := entry{
			attendee: models.Attendee{
				BadgeCode: p.BadgeCode,
				Name:      p.Name,
				Email:     p.Email,
				Phone:     p.Phone,
				UpdatedAt: now,
			},
			scans: make([]models.Scan, 0, len(p.Scans)),
		}

		for j, s := range p.Scans {
			if s.ActivityName == "" || s.ActivityCategory == "" {
				return nil, 0, fmt.Errorf("participant %d (%s) scan %d: missing activity_name or activity_category", i, p.BadgeCode, j)
			}
			scannedAt, err := models.ParseTimestamp(s.ScannedAt)
			if err != nil {
				return nil, 0, fmt.Errorf("participant %d (%s) scan %d: %w", i, p.BadgeCode, j, err)
			}
			e.scans = append(e.scans, models.Scan{
				BadgeCode:        p.BadgeCode,
				ActivityName:     s.ActivityName,
				ActivityCategory: s.ActivityCategory,
				ScannedAt:        scannedAt,
			})
		}

		entries = append(entries, e)
	}

	return entries, skipped, nil
}
