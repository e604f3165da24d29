package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hackathon-badges/internal/models"

	"github.com/jackc/pgx/v5"
)

// updatableColumns lists the attendee columns a client may change
var updatableColumns = map[string]bool{
	"name":  true,
	"email": true,
	"phone": true,
}

// PostgresAttendeeRepo handles database operations for attendees
type PostgresAttendeeRepo struct {
	db DBTX
}

// NewAttendeeRepository creates a new attendee repository
func NewAttendeeRepository(db DBTX) *PostgresAttendeeRepo {
	return &PostgresAttendeeRepo{db: db}
}

const attendeeColumns = `badge_code, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''), updated_at`

// List retrieves every attendee ordered by badge code. Scans are not loaded.
func (r *PostgresAttendeeRepo) List(ctx context.Context) ([]*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees ORDER BY badge_code`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []*models.Attendee
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.BadgeCode, &a.Name, &a.Email, &a.Phone, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		a.UpdatedAt = a.UpdatedAt.UTC()
		attendees = append(attendees, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendees: %w", err)
	}

	return attendees, nil
}

// GetByBadgeCode retrieves an attendee by badge code. Scans are not loaded.
func (r *PostgresAttendeeRepo) GetByBadgeCode(ctx context.Context, badgeCode string) (*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE badge_code = $1`
	var a models.Attendee
	err := r.db.QueryRow(ctx, query, badgeCode).Scan(&a.BadgeCode, &a.Name, &a.Email, &a.Phone, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("attendee %q: %w", badgeCode, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get attendee: %w", err)
	}
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

// Exists checks if an attendee with the badge code exists
func (r *PostgresAttendeeRepo) Exists(ctx context.Context, badgeCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM attendees WHERE badge_code = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, badgeCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendee existence: %w", err)
	}
	return exists, nil
}

// Update sets the given columns and updated_at in a single statement
func (r *PostgresAttendeeRepo) Update(ctx context.Context, badgeCode string, fields []FieldUpdate, updatedAt time.Time) error {
	query, args, err := updateAttendeeStatement(badgeCode, fields, updatedAt)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendee %q: %w", badgeCode, ErrNotFound)
	}
	return nil
}

// Touch sets updated_at without changing any other column
func (r *PostgresAttendeeRepo) Touch(ctx context.Context, badgeCode string, updatedAt time.Time) error {
	query := `UPDATE attendees SET updated_at = $1 WHERE badge_code = $2`
	result, err := r.db.Exec(ctx, query, updatedAt, badgeCode)
	if err != nil {
		return fmt.Errorf("failed to touch attendee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendee %q: %w", badgeCode, ErrNotFound)
	}
	return nil
}

// InsertIgnore inserts an attendee and silently skips duplicates
func (r *PostgresAttendeeRepo) InsertIgnore(ctx context.Context, a *models.Attendee) (bool, error) {
	query := `
		INSERT INTO attendees (badge_code, name, email, phone, updated_at)
		VALUES ($1, NULLIF($2::text, ''), NULLIF($3::text, ''), NULLIF($4::text, ''), $5)
		ON CONFLICT DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, a.BadgeCode, a.Name, a.Email, a.Phone, a.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert attendee: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// updateAttendeeStatement builds the UPDATE for an attendee. Column names come
// from updatableColumns only.
func updateAttendeeStatement(badgeCode string, fields []FieldUpdate, updatedAt time.Time) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		if !updatableColumns[f.Column] {
			return "", nil, fmt.Errorf("column %q is not updatable", f.Column)
		}
		args = append(args, f.Value)
		// Empty strings are stored as NULL, as on insert, so a cleared email
		// never collides with another.
		sets = append(sets, f.Column+" = NULLIF($"+strconv.Itoa(len(args))+"::text, '')")
	}
	args = append(args, updatedAt)
	sets = append(sets, "updated_at = $"+strconv.Itoa(len(args)))
	args = append(args, badgeCode)

	query := "UPDATE attendees SET " + strings.Join(sets, ", ") + " WHERE badge_code = $" + strconv.Itoa(len(args))
	return query, args, nil
}
