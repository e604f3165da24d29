package models

import "time"

// Attendee represents a hackathon participant identified by a badge code
type Attendee struct {
	BadgeCode string        `json:"badge_code"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	UpdatedAt time.Time     `json:"updated_at"`
	Scans     []ScanSummary `json:"scans"`
}

// Scan represents a single activity scan of a badge
type Scan struct {
	ID               int64     `json:"id"`
	BadgeCode        string    `json:"badge_code"`
	ActivityName     string    `json:"activity_name"`
	ActivityCategory string    `json:"activity_category"`
	ScannedAt        time.Time `json:"scanned_at"`
}

// ScanSummary is the view of a scan nested under its attendee
type ScanSummary struct {
	ActivityName     string    `json:"activity_name"`
	ActivityCategory string    `json:"activity_category"`
	ScannedAt        time.Time `json:"scanned_at"`
}

// ScanRequest is the body of a scan recording request
type ScanRequest struct {
	ActivityName     string `json:"activity_name"`
	ActivityCategory string `json:"activity_category"`
}

// ScanFrequency is the number of scans of one activity
type ScanFrequency struct {
	ActivityName     string `json:"activity_name"`
	ActivityCategory string `json:"activity_category"`
	Frequency        int64  `json:"frequency"`
}

// ScanCluster is the number of scans of one activity inside a time bucket
type ScanCluster struct {
	TimePeriod   string `json:"time_period"`
	ScanCount    int64  `json:"scan_count"`
	ActivityName string `json:"activity_name"`
}

// CheckinSession is a period during which an attendee is on site.
// CheckoutTime stays nil until the attendee checks out.
type CheckinSession struct {
	ID           int64      `json:"id"`
	BadgeCode    string     `json:"badge_code"`
	CheckinTime  time.Time  `json:"checkin_time"`
	CheckoutTime *time.Time `json:"checkout_time"`
}

// CheckinResponse is returned when a session is opened
type CheckinResponse struct {
	BadgeCode   string    `json:"badge_code"`
	CheckinTime time.Time `json:"checkin_time"`
}

// CheckoutResponse is returned when open sessions are closed
type CheckoutResponse struct {
	BadgeCode    string    `json:"badge_code"`
	CheckoutTime time.Time `json:"checkout_time"`
}
