package repository

import (
	"context"
	"fmt"
	"time"

	"hackathon-badges/internal/models"
)

// PostgresCheckinRepo handles database operations for check-in sessions
type PostgresCheckinRepo struct {
	db DBTX
}

// NewCheckinRepository creates a new check-in repository
func NewCheckinRepository(db DBTX) *PostgresCheckinRepo {
	return &PostgresCheckinRepo{db: db}
}

// Create opens a new session
func (r *PostgresCheckinRepo) Create(ctx context.Context, badgeCode string, checkinTime time.Time) (*models.CheckinSession, error) {
	query := `
		INSERT INTO checkins (badge_code, checkin_time)
		VALUES ($1, $2)
		RETURNING id
	`
	session := &models.CheckinSession{
		BadgeCode:   badgeCode,
		CheckinTime: checkinTime,
	}
	if err := r.db.QueryRow(ctx, query, badgeCode, checkinTime).Scan(&session.ID); err != nil {
		return nil, fmt.Errorf("failed to create checkin: %w", err)
	}
	return session, nil
}

// CloseOpen closes every open session of the badge in one statement
func (r *PostgresCheckinRepo) CloseOpen(ctx context.Context, badgeCode string, checkoutTime time.Time) (int64, error) {
	query := `
		UPDATE checkins SET checkout_time = $1
		WHERE badge_code = $2 AND checkout_time IS NULL
	`
	result, err := r.db.Exec(ctx, query, checkoutTime, badgeCode)
	if err != nil {
		return 0, fmt.Errorf("failed to close checkins: %w", err)
	}
	return result.RowsAffected(), nil
}

// List retrieves every session in insertion order
func (r *PostgresCheckinRepo) List(ctx context.Context) ([]*models.CheckinSession, error) {
	query := `
		SELECT id, COALESCE(badge_code, ''), checkin_time, checkout_time
		FROM checkins
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	sessions := []*models.CheckinSession{}
	for rows.Next() {
		var s models.CheckinSession
		if err := rows.Scan(&s.ID, &s.BadgeCode, &s.CheckinTime, &s.CheckoutTime); err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		s.CheckinTime = s.CheckinTime.UTC()
		if s.CheckoutTime != nil {
			out := s.CheckoutTime.UTC()
			s.CheckoutTime = &out
		}
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkins: %w", err)
	}

	return sessions, nil
}
