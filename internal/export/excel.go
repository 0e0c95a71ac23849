// Package export produces the admin's Excel overview of appointments
// and donations.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"physiocare/internal/datefmt"
	"physiocare/internal/models"

	"github.com/xuri/excelize/v2"
)

// Records supplies the rows to export.
type Records interface {
	ListAppointmentsBetween(ctx context.Context, start, end time.Time) ([]*models.Appointment, error)
	ListDonations(ctx context.Context) ([]*models.Donation, error)
}

// Exporter writes one workbook with an appointments sheet and a
// donations sheet.
type Exporter struct {
	records Records
}

// NewExporter creates an exporter over the store.
func NewExporter(records Records) *Exporter {
	return &Exporter{records: records}
}

// WriteWorkbook renders appointments in [start, end) plus all
// donations into wr as an .xlsx workbook.
func (e *Exporter) WriteWorkbook(ctx context.Context, wr io.Writer, start, end time.Time) error {
	appointments, err := e.records.ListAppointmentsBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	donations, err := e.records.ListDonations(ctx)
	if err != nil {
		return fmt.Errorf("load donations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeAppointmentsSheet(f, appointments); err != nil {
		return err
	}
	if err := writeDonationsSheet(f, donations); err != nil {
		return err
	}

	return f.Write(wr)
}

func writeAppointmentsSheet(f *excelize.File, appointments []*models.Appointment) error {
	const sheet = "Appointments"
	f.SetSheetName("Sheet1", sheet)

	header := []string{"Reference", "Patient", "Email", "Phone", "Date", "Time", "Duration (min)", "Status"}
	if err := writeRow(f, sheet, 1, toCells(header)); err != nil {
		return err
	}
	if err := boldRow(f, sheet, 1, len(header)); err != nil {
		return err
	}

	for i, a := range appointments {
		row := []any{
			a.Reference,
			a.PatientName,
			a.PatientEmail,
			a.PatientPhone,
			datefmt.ShortDate(a.StartTime),
			datefmt.TimeRange(a.StartTime, a.EndTime),
			a.DurationMinutes,
			a.Status,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDonationsSheet(f *excelize.File, donations []*models.Donation) error {
	const sheet = "Donations"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := []string{"Reference", "Donor", "Email", "Amount", "Kind", "Status", "Created"}
	if err := writeRow(f, sheet, 1, toCells(header)); err != nil {
		return err
	}
	if err := boldRow(f, sheet, 1, len(header)); err != nil {
		return err
	}

	for i, d := range donations {
		row := []any{
			d.Reference,
			d.DonorName,
			d.DonorEmail,
			datefmt.Amount(d.AmountCents, d.Currency),
			d.Kind,
			d.Status,
			datefmt.ShortDate(d.CreatedAt),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, rowNum, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	startCell, _ := excelize.CoordinatesToCellName(1, rowNum)
	endCell, _ := excelize.CoordinatesToCellName(width, rowNum)
	return f.SetCellStyle(sheet, startCell, endCell, style)
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
