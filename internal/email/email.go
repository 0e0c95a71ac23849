// Package email delivers templated confirmations to patients.
package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"physiocare/internal/datefmt"
	"physiocare/internal/models"
)

// Sender delivers a message. Implementations can be swapped
// (SendGrid, SMTP) without changing callers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

var bookingTemplate = template.Must(template.New("booking").Parse(
	`Dear {{.Name}},

Your appointment at {{.Practice}} is booked:

    {{.When}}

Booking reference: {{.Reference}}

If you need to reschedule or cancel, use the reference above on our
website. Please arrive five minutes early.

Kind regards,
{{.Practice}}
`))

var donationTemplate = template.Must(template.New("donation").Parse(
	`Dear {{if .Name}}{{.Name}}{{else}}supporter{{end}},

Thank you for supporting {{.Practice}} with {{.Amount}}{{if .Recurring}} per month{{end}}.

Reference: {{.Reference}}

Kind regards,
{{.Practice}}
`))

// Mailer renders the practice's templates and hands them to a Sender.
type Mailer struct {
	sender   Sender
	practice string
}

// NewMailer creates a mailer for the named practice.
func NewMailer(sender Sender, practiceName string) *Mailer {
	return &Mailer{sender: sender, practice: practiceName}
}

// SendBookingConfirmation emails the patient their appointment
// details.
func (m *Mailer) SendBookingConfirmation(ctx context.Context, a *models.Appointment) error {
	body, err := render(bookingTemplate, map[string]any{
		"Name":      a.PatientName,
		"Practice":  m.practice,
		"When":      datefmt.Appointment(a.StartTime, a.EndTime),
		"Reference": a.Reference,
	})
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      a.PatientEmail,
		ToName:  a.PatientName,
		Subject: fmt.Sprintf("Appointment confirmed for %s", datefmt.ShortDate(a.StartTime)),
		Body:    body,
	})
}

// SendDonationReceipt emails a donation acknowledgement.
func (m *Mailer) SendDonationReceipt(ctx context.Context, d *models.Donation) error {
	body, err := render(donationTemplate, map[string]any{
		"Name":      d.DonorName,
		"Practice":  m.practice,
		"Amount":    datefmt.Amount(d.AmountCents, d.Currency),
		"Recurring": d.Kind == models.DonationSubscription,
		"Reference": d.Reference,
	})
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      d.DonorEmail,
		ToName:  d.DonorName,
		Subject: "Thank you for your support",
		Body:    body,
	})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
