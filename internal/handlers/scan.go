package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"hackathon-badges/internal/models"
	"hackathon-badges/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ScanService records scans and computes scan statistics
type ScanService interface {
	RecordScan(ctx context.Context, badgeCode string, req models.ScanRequest) (*models.Scan, error)
	Frequencies(ctx context.Context, q services.FrequencyQuery) ([]models.ScanFrequency, error)
	Clusters(ctx context.Context, q services.ClusterQuery) ([]models.ScanCluster, error)
}

// ScanHandler handles scan HTTP requests
type ScanHandler struct {
	scanService ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService ScanService) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// RecordScan handles POST /scan/{badge_code}
func (h *ScanHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	badgeCode := chi.URLParam(r, "badge_code")

	// Missing fields are reported by the service after the badge is resolved.
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug().Err(err).Str("badge_code", badgeCode).Msg("Ignoring malformed scan body")
		req = models.ScanRequest{}
	}

	scan, err := h.scanService.RecordScan(r.Context(), badgeCode, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to record scan")
		return
	}

	log.Info().
		Str("badge_code", badgeCode).
		Int64("scan_id", scan.ID).
		Str("activity_name", scan.ActivityName).
		Msg("Scan recorded")

	respondJSON(w, http.StatusCreated, scan)
}

// GetScanStatistics handles GET /scans
func (h *ScanHandler) GetScanStatistics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	minFrequency, err := optionalInt(query.Get("min_frequency"))
	if err != nil {
		respondError(w, "min_frequency must be an integer", http.StatusBadRequest)
		return
	}
	maxFrequency, err := optionalInt(query.Get("max_frequency"))
	if err != nil {
		respondError(w, "max_frequency must be an integer", http.StatusBadRequest)
		return
	}

	stats, err := h.scanService.Frequencies(r.Context(), services.FrequencyQuery{
		Category:     query.Get("activity_category"),
		MinFrequency: minFrequency,
		MaxFrequency: maxFrequency,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to get scan statistics")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetClusteredScans handles GET /clustered-scans
func (h *ScanHandler) GetClusteredScans(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	clusters, err := h.scanService.Clusters(r.Context(), services.ClusterQuery{
		TimeUnit:  query.Get("time_unit"),
		Activity:  query.Get("activity"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to get clustered scans")
		return
	}

	respondJSON(w, http.StatusOK, clusters)
}

// optionalInt parses an optional integer query parameter; empty means unset
func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
