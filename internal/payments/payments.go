// Package payments drives the donation and support-plan flow against
// the payment provider. The provider returns a client secret the
// frontend uses to confirm; capture correctness is the provider's
// problem, not ours.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"physiocare/internal/metrics"
	"physiocare/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Donation amounts are bounded to keep typos from becoming charges.
const (
	MinAmountCents = 100     // 1.00
	MaxAmountCents = 1000000 // 10,000.00
)

// ErrInvalidDonation marks a malformed donation request.
var ErrInvalidDonation = errors.New("invalid donation request")

// Provider creates payments at the external processor.
type Provider interface {
	CreatePayment(ctx context.Context, req Intent) (*Result, error)
	CreateSubscription(ctx context.Context, req Intent) (*Result, error)
}

// DonationStore persists donation records.
type DonationStore interface {
	CreateDonation(ctx context.Context, d *models.Donation) (int64, error)
	UpdateDonationStatus(ctx context.Context, reference, status string) error
}

// ReceiptSender emails the donor an acknowledgement.
type ReceiptSender interface {
	SendDonationReceipt(ctx context.Context, d *models.Donation) error
}

// Intent is what the provider needs to create a payment.
type Intent struct {
	AmountCents int64
	Currency    string
	Email       string
	Name        string
	Reference   string
}

// Result carries the provider handle and the client secret the
// frontend confirms with.
type Result struct {
	ProviderID   string
	ClientSecret string
}

// Request is a donation submission from the website.
type Request struct {
	AmountCents int64
	Email       string
	Name        string
	Recurring   bool
}

// Donation is the service's answer: the stored record plus the
// client secret.
type Donation struct {
	Reference    string
	ClientSecret string
	Kind         string
}

// Service validates requests, records them and calls the provider.
type Service struct {
	provider Provider
	store    DonationStore
	receipts ReceiptSender
	currency string
	logger   *zerolog.Logger
}

// NewService wires the donation service. currency is the ISO code all
// donations are charged in.
func NewService(provider Provider, store DonationStore, currency string, logger *zerolog.Logger) *Service {
	return &Service{provider: provider, store: store, currency: strings.ToLower(currency), logger: logger}
}

// UseReceipts enables best-effort donation receipt emails.
func (s *Service) UseReceipts(sender ReceiptSender) {
	s.receipts = sender
}

// Donate creates a one-off payment or a recurring support plan and
// returns the client secret for confirmation.
func (s *Service) Donate(ctx context.Context, req Request) (*Donation, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	kind := models.DonationOneOff
	if req.Recurring {
		kind = models.DonationSubscription
	}

	intent := Intent{
		AmountCents: req.AmountCents,
		Currency:    s.currency,
		Email:       strings.TrimSpace(req.Email),
		Name:        strings.TrimSpace(req.Name),
		Reference:   uuid.NewString(),
	}

	var (
		result *Result
		err    error
	)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if req.Recurring {
		result, err = s.provider.CreateSubscription(ctx, intent)
	} else {
		result, err = s.provider.CreatePayment(ctx, intent)
	}
	if err != nil {
		metrics.IncDonation("provider_error")
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	record := &models.Donation{
		Reference:         intent.Reference,
		DonorName:         intent.Name,
		DonorEmail:        intent.Email,
		AmountCents:       req.AmountCents,
		Currency:          s.currency,
		Kind:              kind,
		ProviderPaymentID: result.ProviderID,
		Status:            "created",
	}
	if _, err := s.store.CreateDonation(ctx, record); err != nil {
		return nil, fmt.Errorf("store donation: %w", err)
	}

	metrics.IncDonation(kind)
	s.logger.Info().
		Str("reference", intent.Reference).
		Str("kind", kind).
		Int64("amount_cents", req.AmountCents).
		Msg("donation created")

	if s.receipts != nil {
		if err := s.receipts.SendDonationReceipt(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("reference", intent.Reference).Msg("donation receipt failed")
		}
	}

	return &Donation{
		Reference:    intent.Reference,
		ClientSecret: result.ClientSecret,
		Kind:         kind,
	}, nil
}

// MarkOutcome records the provider's final status for a donation.
func (s *Service) MarkOutcome(ctx context.Context, reference, status string) error {
	if status != "succeeded" && status != "failed" {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDonation, status)
	}
	return s.store.UpdateDonationStatus(ctx, reference, status)
}

func validate(req Request) error {
	if req.AmountCents < MinAmountCents {
		return fmt.Errorf("%w: amount below minimum", ErrInvalidDonation)
	}
	if req.AmountCents > MaxAmountCents {
		return fmt.Errorf("%w: amount above maximum", ErrInvalidDonation)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email required", ErrInvalidDonation)
	}
	return nil
}
