package handlers

import (
	"net/http"

	"hackathon-badges/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps holds everything NewRouter wires together
type RouterDeps struct {
	Attendees AttendeeService
	Scans     ScanService
	Checkins  CheckinService
	DB        Pinger

	// Metrics observes every request; MetricsHandler serves /metrics when set
	Metrics        middleware.RequestObserver
	MetricsHandler http.Handler

	CORSAllowedOrigin string
	RateLimit         float64
	RateBurst         int
}

// NewRouter builds the HTTP API.
//
// Middleware order:
//
//	RequestID → RealIP → AccessLog → Metrics → Recoverer → CORS → RateLimit
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(deps.CORSAllowedOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Operational routes are not rate limited
	r.Method(http.MethodGet, "/health", NewHealthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	userHandler := NewUserHandler(deps.Attendees)
	scanHandler := NewScanHandler(deps.Scans)
	checkinHandler := NewCheckinHandler(deps.Checkins)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.RateLimit, deps.RateBurst))

		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{badge_code}", userHandler.GetUser)
		r.Put("/users/{badge_code}", userHandler.UpdateUser)

		r.Post("/scan/{badge_code}", scanHandler.RecordScan)
		r.Get("/scans", scanHandler.GetScanStatistics)
		r.Get("/clustered-scans", scanHandler.GetClusteredScans)

		r.Post("/checkin/{badge_code}", checkinHandler.CheckIn)
		r.Post("/checkout/{badge_code}", checkinHandler.CheckOut)
		r.Get("/checkins", checkinHandler.ListCheckins)
	})

	return r
}
