package repository

import (
	"context"
	"errors"
	"time"

	"hackathon-badges/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errors.New("not found")

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FieldUpdate assigns Value to one updatable attendee column
type FieldUpdate struct {
	Column string
	Value  string
}

// FrequencyFilter narrows the scan frequency aggregation. Nil fields are not applied.
type FrequencyFilter struct {
	Category     *string
	MinFrequency *int
	MaxFrequency *int
}

// ClusterFilter narrows the time-bucketed scan aggregation. Nil or empty fields are not applied.
type ClusterFilter struct {
	Unit     string
	Activity string
	Start    *time.Time
	End      *time.Time
}

// AttendeeRepository stores attendees
type AttendeeRepository interface {
	List(ctx context.Context) ([]*models.Attendee, error)
	GetByBadgeCode(ctx context.Context, badgeCode string) (*models.Attendee, error)
	Exists(ctx context.Context, badgeCode string) (bool, error)
	Update(ctx context.Context, badgeCode string, fields []FieldUpdate, updatedAt time.Time) error
	Touch(ctx context.Context, badgeCode string, updatedAt time.Time) error
	// InsertIgnore inserts the attendee unless it conflicts with an existing row.
	// It reports whether a row was inserted.
	InsertIgnore(ctx context.Context, attendee *models.Attendee) (bool, error)
}

// ScanRepository stores scan events and aggregates over them
type ScanRepository interface {
	Create(ctx context.Context, scan *models.Scan) error
	ListByBadgeCode(ctx context.Context, badgeCode string) ([]models.ScanSummary, error)
	ListGroupedByBadgeCode(ctx context.Context) (map[string][]models.ScanSummary, error)
	Frequencies(ctx context.Context, filter FrequencyFilter) ([]models.ScanFrequency, error)
	Clusters(ctx context.Context, filter ClusterFilter) ([]models.ScanCluster, error)
}

// CheckinRepository stores check-in sessions
type CheckinRepository interface {
	Create(ctx context.Context, badgeCode string, checkinTime time.Time) (*models.CheckinSession, error)
	// CloseOpen sets checkout_time on every open session of the badge and
	// returns how many sessions were closed.
	CloseOpen(ctx context.Context, badgeCode string, checkoutTime time.Time) (int64, error)
	List(ctx context.Context) ([]*models.CheckinSession, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Attendees AttendeeRepository
	Scans     ScanRepository
	Checkins  CheckinRepository
}

// Store hands out repositories scoped to a single pooled connection
type Store interface {
	// WithConn acquires a connection, runs fn and releases the connection on every path.
	WithConn(ctx context.Context, fn func(Repositories) error) error
	// WithTx runs fn inside a transaction that is committed when fn returns nil.
	WithTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}
