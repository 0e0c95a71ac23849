// Package api is the JSON HTTP surface of the practice backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"physiocare/internal/availability"
	"physiocare/internal/booking"
	"physiocare/internal/export"
	"physiocare/internal/payments"
	"physiocare/internal/videos"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultSlotMinutes is used when the client does not ask for a
// specific treatment length.
const DefaultSlotMinutes = 60

// Deps bundles the services the HTTP server exposes.
type Deps struct {
	Availability *availability.Service
	Booking      *booking.Service
	Videos       *videos.Service
	Payments     *payments.Service
	Exporter     *export.Exporter
	Location     *time.Location
}

// HTTPServer serves the patient-facing API.
type HTTPServer struct {
	server  *http.Server
	deps    Deps
	apiKey  string // required for admin endpoints
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// Config holds HTTP server settings.
type Config struct {
	Port            int
	APIKey          string
	RateLimitPerSec int
	RateLimitBurst  int
}

// NewHTTPServer builds the server and its routes.
func NewHTTPServer(cfg Config, deps Deps, logger *zerolog.Logger) *HTTPServer {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 20
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = cfg.RateLimitPerSec * 2
	}

	s := &HTTPServer{
		deps:    deps,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/availability", s.limited(s.handleDayAvailability))
	mux.HandleFunc("/api/availability/month", s.limited(s.handleMonthAvailability))
	mux.HandleFunc("/api/appointments", s.limited(s.handleAppointments))
	mux.HandleFunc("/api/appointments/", s.limited(s.handleAppointmentByReference))
	mux.HandleFunc("/api/videos", s.limited(s.handleVideos))
	mux.HandleFunc("/api/donations", s.limited(s.handleDonations))
	mux.HandleFunc("/api/export/records.xlsx", s.adminOnly(s.handleExport))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// limited applies the global request rate limit.
func (s *HTTPServer) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

// adminOnly requires the configured API key via x-api-key header.
func (s *HTTPServer) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case availability.IsRetryable(err):
		writeError(w, http.StatusBadGateway, "calendar temporarily unavailable; please retry")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
