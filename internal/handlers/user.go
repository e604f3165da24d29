package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"hackathon-badges/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AttendeeService is the attendee directory used by UserHandler
type AttendeeService interface {
	ListAttendees(ctx context.Context) ([]*models.Attendee, error)
	GetAttendee(ctx context.Context, badgeCode string) (*models.Attendee, error)
	UpdateAttendee(ctx context.Context, badgeCode string, fields map[string]any) (*models.Attendee, error)
}

// UserHandler handles attendee HTTP requests
type UserHandler struct {
	attendeeService AttendeeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(attendeeService AttendeeService) *UserHandler {
	return &UserHandler{
		attendeeService: attendeeService,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.attendeeService.ListAttendees(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, attendees)
}

// GetUser handles GET /users/{badge_code}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	badgeCode := chi.URLParam(r, "badge_code")

	attendee, err := h.attendeeService.GetAttendee(r.Context(), badgeCode)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, attendee)
}

// UpdateUser handles PUT /users/{badge_code}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	badgeCode := chi.URLParam(r, "badge_code")

	// A body that is not a JSON object carries no recognized field. The
	// service still reports an unknown badge before rejecting it.
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Debug().Err(err).Str("badge_code", badgeCode).Msg("Ignoring malformed update body")
		fields = nil
	}

	attendee, err := h.attendeeService.UpdateAttendee(r.Context(), badgeCode, fields)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update user")
		return
	}

	log.Info().
		Str("badge_code", badgeCode).
		Msg("User updated")

	respondJSON(w, http.StatusOK, attendee)
}
