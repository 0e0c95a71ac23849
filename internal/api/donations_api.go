package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"physiocare/internal/metrics"
	"physiocare/internal/payments"
)

// DonationRequest is the body for POST /api/donations.
type DonationRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Recurring   bool   `json:"recurring,omitempty"`
}

// DonationResponse carries the client secret the frontend confirms
// the payment with.
type DonationResponse struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"client_secret"`
	Kind         string `json:"kind"`
}

// handleDonations creates a payment or support-plan subscription.
// POST /api/donations
func (s *HTTPServer) handleDonations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("donations")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	if s.deps.Payments == nil {
		writeError(w, http.StatusServiceUnavailable, "donations are not configured")
		return
	}

	var req DonationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	donation, err := s.deps.Payments.Donate(r.Context(), payments.Request{
		AmountCents: req.AmountCents,
		Email:       req.Email,
		Name:        req.Name,
		Recurring:   req.Recurring,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidDonation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, DonationResponse{
		Reference:    donation.Reference,
		ClientSecret: donation.ClientSecret,
		Kind:         donation.Kind,
	})
}

// handleExport streams the admin workbook.
// GET /api/export/records.xlsx?start=YYYY-MM-DD&end=YYYY-MM-DD
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("start"), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("end"), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end; expected YYYY-MM-DD")
		return
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "start must not be after end")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="records.xlsx"`)
	if err := s.deps.Exporter.WriteWorkbook(r.Context(), w, start, end.AddDate(0, 0, 1)); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}
