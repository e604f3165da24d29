package repository

import (
	"context"
	"fmt"

	"hackathon-badges/internal/models"
)

// timeBuckets maps a supported time unit to its date_trunc field
var timeBuckets = map[string]string{
	"hour":   "hour",
	"minute": "minute",
}

// DefaultTimeUnit is used when a cluster filter names no unit
const DefaultTimeUnit = "hour"

const frequencyBase = `SELECT activity_name, activity_category, COUNT(*) AS frequency FROM scans`

// ValidTimeUnit reports whether scans can be clustered by unit
func ValidTimeUnit(unit string) bool {
	_, ok := timeBuckets[unit]
	return ok
}

// PostgresScanRepo handles database operations for scans
type PostgresScanRepo struct {
	db DBTX
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db DBTX) *PostgresScanRepo {
	return &PostgresScanRepo{db: db}
}

// Create inserts a scan and sets its ID
func (r *PostgresScanRepo) Create(ctx context.Context, scan *models.Scan) error {
	query := `
		INSERT INTO scans (badge_code, activity_name, activity_category, scanned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		scan.BadgeCode, scan.ActivityName, scan.ActivityCategory, scan.ScannedAt,
	).Scan(&scan.ID)
	if err != nil {
		return fmt.Errorf("failed to create scan: %w", err)
	}
	return nil
}

// ListByBadgeCode retrieves the scans of one attendee in insertion order
func (r *PostgresScanRepo) ListByBadgeCode(ctx context.Context, badgeCode string) ([]models.ScanSummary, error) {
	query := `
		SELECT activity_name, activity_category, scanned_at
		FROM scans
		WHERE badge_code = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, badgeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := []models.ScanSummary{}
	for rows.Next() {
		var s models.ScanSummary
		if err := rows.Scan(&s.ActivityName, &s.ActivityCategory, &s.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scan row: %w", err)
		}
		s.ScannedAt = s.ScannedAt.UTC()
		scans = append(scans, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scans: %w", err)
	}

	return scans, nil
}

// ListGroupedByBadgeCode retrieves all scans keyed by badge code, each list in insertion order
func (r *PostgresScanRepo) ListGroupedByBadgeCode(ctx context.Context) (map[string][]models.ScanSummary, error) {
	query := `
		SELECT badge_code, activity_name, activity_category, scanned_at
		FROM scans
		WHERE badge_code IS NOT NULL
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]models.ScanSummary)
	for rows.Next() {
		var badgeCode string
		var s models.ScanSummary
		if err := rows.Scan(&badgeCode, &s.ActivityName, &s.ActivityCategory, &s.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scan row: %w", err)
		}
		s.ScannedAt = s.ScannedAt.UTC()
		grouped[badgeCode] = append(grouped[badgeCode], s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scans: %w", err)
	}

	return grouped, nil
}

// Frequencies counts scans per (activity_name, activity_category)
func (r *PostgresScanRepo) Frequencies(ctx context.Context, filter FrequencyFilter) ([]models.ScanFrequency, error) {
	query, args := frequencyQuery(filter).Build()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scans: %w", err)
	}
	defer rows.Close()

	result := []models.ScanFrequency{}
	for rows.Next() {
		var f models.ScanFrequency
		if err := rows.Scan(&f.ActivityName, &f.ActivityCategory, &f.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan frequency row: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frequencies: %w", err)
	}

	return result, nil
}

// Clusters counts scans per time bucket and activity
func (r *PostgresScanRepo) Clusters(ctx context.Context, filter ClusterFilter) ([]models.ScanCluster, error) {
	q, err := clusterQuery(filter)
	if err != nil {
		return nil, err
	}
	query, args := q.Build()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster scans: %w", err)
	}
	defer rows.Close()

	result := []models.ScanCluster{}
	for rows.Next() {
		var c models.ScanCluster
		if err := rows.Scan(&c.TimePeriod, &c.ScanCount, &c.ActivityName); err != nil {
			return nil, fmt.Errorf("failed to scan cluster row: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clusters: %w", err)
	}

	return result, nil
}

func frequencyQuery(filter FrequencyFilter) *Query {
	q := NewQuery(frequencyBase)
	if filter.Category != nil {
		q.Where("activity_category = ?", *filter.Category)
	}
	q.GroupBy("activity_name", "activity_category")
	if filter.MinFrequency != nil {
		q.Having("COUNT(*) >= ?", *filter.MinFrequency)
	}
	if filter.MaxFrequency != nil {
		q.Having("COUNT(*) <= ?", *filter.MaxFrequency)
	}
	// Ties are broken by name so equal state yields equal output.
	return q.OrderBy("frequency DESC", "activity_name", "activity_category")
}

func clusterQuery(filter ClusterFilter) (*Query, error) {
	unit := filter.Unit
	if unit == "" {
		unit = DefaultTimeUnit
	}
	field, ok := timeBuckets[unit]
	if !ok {
		return nil, fmt.Errorf("unsupported time unit %q", unit)
	}

	q := NewQuery(fmt.Sprintf(`
		SELECT to_char(date_trunc('%s', scanned_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD HH24:MI:SS') AS time_period,
		       COUNT(*) AS scan_count,
		       activity_name
		FROM scans`, field))

	if filter.Activity != "" {
		q.Where("activity_name = ?", filter.Activity)
	}
	if filter.Start != nil {
		q.Where("scanned_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q.Where("scanned_at <= ?", *filter.End)
	}

	return q.GroupBy("time_period", "activity_name").OrderBy("time_period", "activity_name"), nil
}
