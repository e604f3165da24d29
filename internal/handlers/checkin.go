package handlers

import (
	"context"
	"net/http"

	"hackathon-badges/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CheckinService opens and closes on-site sessions
type CheckinService interface {
	CheckIn(ctx context.Context, badgeCode string) (*models.CheckinResponse, error)
	CheckOut(ctx context.Context, badgeCode string) (*models.CheckoutResponse, error)
	ListCheckins(ctx context.Context) ([]*models.CheckinSession, error)
}

// CheckinHandler handles check-in HTTP requests
type CheckinHandler struct {
	checkinService CheckinService
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinService CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
	}
}

// CheckIn handles POST /checkin/{badge_code}
func (h *CheckinHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	badgeCode := chi.URLParam(r, "badge_code")

	resp, err := h.checkinService.CheckIn(r.Context(), badgeCode)
	if err != nil {
		respondServiceError(w, r, err, "Failed to check in")
		return
	}

	log.Info().
		Str("badge_code", badgeCode).
		Msg("Checked in")

	respondJSON(w, http.StatusOK, resp)
}

// CheckOut handles POST /checkout/{badge_code}
func (h *CheckinHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	badgeCode := chi.URLParam(r, "badge_code")

	resp, err := h.checkinService.CheckOut(r.Context(), badgeCode)
	if err != nil {
		respondServiceError(w, r, err, "Failed to check out")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListCheckins handles GET /checkins
func (h *CheckinHandler) ListCheckins(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.checkinService.ListCheckins(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "Failed to list checkins")
		return
	}

	respondJSON(w, http.StatusOK, sessions)
}
