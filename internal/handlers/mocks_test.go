package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hackathon-badges/internal/models"
	"hackathon-badges/internal/services"

	"github.com/go-chi/chi/v5"
)

type mockAttendeeService struct {
	listFn   func(ctx context.Context) ([]*models.Attendee, error)
	getFn    func(ctx context.Context, badgeCode string) (*models.Attendee, error)
	updateFn func(ctx context.Context, badgeCode string, fields map[string]any) (*models.Attendee, error)
}

func (m *mockAttendeeService) ListAttendees(ctx context.Context) ([]*models.Attendee, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*models.Attendee{}, nil
}

func (m *mockAttendeeService) GetAttendee(ctx context.Context, badgeCode string) (*models.Attendee, error) {
	if m.getFn != nil {
		return m.getFn(ctx, badgeCode)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAttendeeService) UpdateAttendee(ctx context.Context, badgeCode string, fields map[string]any) (*models.Attendee, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, badgeCode, fields)
	}
	return nil, errors.New("not implemented")
}

type mockScanService struct {
	recordFn      func(ctx context.Context, badgeCode string, req models.ScanRequest) (*models.Scan, error)
	frequenciesFn func(ctx context.Context, q services.FrequencyQuery) ([]models.ScanFrequency, error)
	clustersFn    func(ctx context.Context, q services.ClusterQuery) ([]models.ScanCluster, error)
}

func (m *mockScanService) RecordScan(ctx context.Context, badgeCode string, req models.ScanRequest) (*models.Scan, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, badgeCode, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockScanService) Frequencies(ctx context.Context, q services.FrequencyQuery) ([]models.ScanFrequency, error) {
	if m.frequenciesFn != nil {
		return m.frequenciesFn(ctx, q)
	}
	return []models.ScanFrequency{}, nil
}

func (m *mockScanService) Clusters(ctx context.Context, q services.ClusterQuery) ([]models.ScanCluster, error) {
	if m.clustersFn != nil {
		return m.clustersFn(ctx, q)
	}
	return []models.ScanCluster{}, nil
}

type mockCheckinService struct {
	checkInFn  func(ctx context.Context, badgeCode string) (*models.CheckinResponse, error)
	checkOutFn func(ctx context.Context, badgeCode string) (*models.CheckoutResponse, error)
	listFn     func(ctx context.Context) ([]*models.CheckinSession, error)
}

func (m *mockCheckinService) CheckIn(ctx context.Context, badgeCode string) (*models.CheckinResponse, error) {
	if m.checkInFn != nil {
		return m.checkInFn(ctx, badgeCode)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCheckinService) CheckOut(ctx context.Context, badgeCode string) (*models.CheckoutResponse, error) {
	if m.checkOutFn != nil {
		return m.checkOutFn(ctx, badgeCode)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCheckinService) ListCheckins(ctx context.Context) ([]*models.CheckinSession, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*models.CheckinSession{}, nil
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

// newTestRouter wires the mocks into the real router
func newTestRouter(a *mockAttendeeService, s *mockScanService, c *mockCheckinService) http.Handler {
	if a == nil {
		a = &mockAttendeeService{}
	}
	if s == nil {
		s = &mockScanService{}
	}
	if c == nil {
		c = &mockCheckinService{}
	}
	return NewRouter(RouterDeps{
		Attendees:         a,
		Scans:             s,
		Checkins:          c,
		DB:                mockPinger{},
		CORSAllowedOrigin: "*",
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// withBadge attaches a chi route param to a request for direct handler calls
func withBadge(req *http.Request, badgeCode string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("badge_code", badgeCode)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var fixedTime = time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)
