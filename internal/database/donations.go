package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physiocare/internal/models"
)

// CreateDonation records a donation or subscription intent.
func (db *DB) CreateDonation(ctx context.Context, d *models.Donation) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO donations
			(reference, donor_name, donor_email, amount_cents, currency,
			 kind, provider_payment_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Reference, d.DonorName, d.DonorEmail, d.AmountCents, d.Currency,
		d.Kind, d.ProviderPaymentID, d.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}
	return res.LastInsertId()
}

// GetDonationByReference looks a donation up by its reference.
func (db *DB) GetDonationByReference(ctx context.Context, reference string) (*models.Donation, error) {
	var d models.Donation
	var name, providerID sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, reference, donor_name, donor_email, amount_cents,
		       currency, kind, provider_payment_id, status, created_at
		FROM donations WHERE reference = ?`, reference,
	).Scan(
		&d.ID, &d.Reference, &name, &d.DonorEmail, &d.AmountCents,
		&d.Currency, &d.Kind, &providerID, &d.Status, &d.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	d.DonorName = name.String
	d.ProviderPaymentID = providerID.String
	return &d, nil
}

// UpdateDonationStatus records the payment provider's outcome.
func (db *DB) UpdateDonationStatus(ctx context.Context, reference, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE donations SET status = ? WHERE reference = ?`, status, reference)
	if err != nil {
		return fmt.Errorf("update donation status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDonations returns all donations, newest first.
func (db *DB) ListDonations(ctx context.Context) ([]*models.Donation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, reference, donor_name, donor_email, amount_cents,
		       currency, kind, provider_payment_id, status, created_at
		FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	defer rows.Close()

	var out []*models.Donation
	for rows.Next() {
		var d models.Donation
		var name, providerID sql.NullString
		if err := rows.Scan(
			&d.ID, &d.Reference, &name, &d.DonorEmail, &d.AmountCents,
			&d.Currency, &d.Kind, &providerID, &d.Status, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		d.DonorName = name.String
		d.ProviderPaymentID = providerID.String
		out = append(out, &d)
	}
	return out, rows.Err()
}
