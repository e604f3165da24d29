package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hackathon-badges/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends v as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondServiceError maps a service failure to a status code. Only client
// errors carry their own message; anything else is logged and answered with
// fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, svcErr.Error(), http.StatusNotFound)
			return
		case errors.Is(err, services.ErrInvalidInput):
			respondError(w, svcErr.Error(), http.StatusBadRequest)
			return
		}
	}

	event := log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		event = event.Str("pg_code", pgErr.Code).Str("constraint", pgErr.ConstraintName)
	}
	event.Msg(fallback)

	respondError(w, fallback, http.StatusInternalServerError)
}
