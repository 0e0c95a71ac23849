package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"physiocare/internal/availability"
	"physiocare/internal/booking"
	"physiocare/internal/database"
	"physiocare/internal/export"
	"physiocare/internal/payments"
	"physiocare/internal/slots"
	"physiocare/internal/videos"

	"github.com/rs/zerolog"
)

const testAPIKey = "valid-key"

type ErrorResponse struct {
	Error string `json:"error"`
}

// stubProvider fakes the practice calendar.
type stubProvider struct {
	busy []slots.TimeInterval
	err  error
}

func (p *stubProvider) CheckAvailability(_ context.Context, _, _ time.Time) ([]slots.TimeInterval, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.busy, nil
}

// stubPayments fakes the payment processor.
type stubPayments struct{}

func (stubPayments) CreatePayment(_ context.Context, req payments.Intent) (*payments.Result, error) {
	return &payments.Result{ProviderID: "pi_" + req.Reference, ClientSecret: "cs_payment"}, nil
}

func (stubPayments) CreateSubscription(_ context.Context, req payments.Intent) (*payments.Result, error) {
	return &payments.Result{ProviderID: "sub_" + req.Reference, ClientSecret: "cs_subscription"}, nil
}

type testServer struct {
	Handler  http.Handler
	Provider *stubProvider
	DB       *database.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	provider := &stubProvider{}
	hours := slots.WorkingHours{StartHour: 9, EndHour: 17}

	deps := Deps{
		Availability: availability.NewService(provider, hours, time.UTC, &logger),
		Booking:      booking.NewService(db, provider, hours, nil, nil, &logger),
		Videos:       videos.NewService(db, &logger),
		Payments:     payments.NewService(stubPayments{}, db, "eur", &logger),
		Exporter:     export.NewExporter(db),
		Location:     time.UTC,
	}

	server := NewHTTPServer(Config{Port: 0, APIKey: testAPIKey, RateLimitPerSec: 1000}, deps, &logger)
	return &testServer{
		Handler:  server.server.Handler,
		Provider: provider,
		DB:       db,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != "ok" {
		t.Errorf("body = %q, want %q", got, "ok")
	}
}

func TestExport_RequiresAPIKey(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "missing key", key: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "wrong", wantStatus: http.StatusUnauthorized},
		{name: "valid key", key: testAPIKey, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/export/records.xlsx?start=2024-01-01&end=2024-01-31", nil)
			if tt.key != "" {
				req.Header.Set("x-api-key", tt.key)
			}

			w := srv.do(t, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExport_Validation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing dates", query: ""},
		{name: "bad start", query: "start=01-01-2024&end=2024-01-31"},
		{name: "bad end", query: "start=2024-01-01&end=31-01-2024"},
		{name: "start after end", query: "start=2024-02-01&end=2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/export/records.xlsx?"+tt.query, nil)
			req.Header.Set("x-api-key", testAPIKey)

			w := srv.do(t, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestExport_ContentType(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export/records.xlsx?start=2024-01-01&end=2024-01-31", nil)
	req.Header.Set("x-api-key", testAPIKey)

	w := srv.do(t, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if got := w.Header().Get("Content-Type"); got != want {
		t.Errorf("content type = %q, want %q", got, want)
	}
	if w.Body.Len() == 0 {
		t.Error("workbook body is empty")
	}
}

func TestRateLimit(t *testing.T) {
	srv := setupTestServer(t)

	// Rebuild with a tiny limit so the third request trips it.
	logger := zerolog.Nop()
	server := NewHTTPServer(Config{APIKey: testAPIKey, RateLimitPerSec: 1, RateLimitBurst: 2}, Deps{
		Availability: availability.NewService(srv.Provider, slots.WorkingHours{StartHour: 9, EndHour: 17}, time.UTC, &logger),
		Location:     time.UTC,
	}, &logger)

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		server.server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/availability?date=2024-01-15", nil))
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want %d", last, http.StatusTooManyRequests)
	}
}
