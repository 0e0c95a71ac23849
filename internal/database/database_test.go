package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"physiocare/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAppointmentRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a := &models.Appointment{
		Reference:       "ref-123",
		PatientName:     "Jan de Vries",
		PatientEmail:    "jan@example.com",
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          models.StatusPending,
	}
	if _, err := db.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	got, err := db.GetAppointmentByReference(ctx, "ref-123")
	if err != nil {
		t.Fatalf("GetAppointmentByReference: %v", err)
	}
	if got.PatientName != a.PatientName || got.DurationMinutes != 60 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("start time mismatch: %v", got.StartTime)
	}
}

func TestGetAppointmentNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetAppointmentByReference(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHasActiveAppointmentOverlap(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	seed := func(ref, status string) {
		t.Helper()
		a := &models.Appointment{
			Reference:       ref,
			PatientName:     "P",
			PatientEmail:    "p@example.com",
			StartTime:       start,
			EndTime:         start.Add(time.Hour),
			DurationMinutes: 60,
			Status:          status,
		}
		if _, err := db.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("seed appointment: %v", err)
		}
	}

	seed("busy-1", models.StatusConfirmed)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"same slot", start, start.Add(time.Hour), true},
		{"straddles end", start.Add(30 * time.Minute), start.Add(90 * time.Minute), true},
		{"touching after", start.Add(time.Hour), start.Add(2 * time.Hour), false},
		{"touching before", start.Add(-time.Hour), start, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.HasActiveAppointmentOverlap(ctx, tt.start, tt.end)
			if err != nil {
				t.Fatalf("HasActiveAppointmentOverlap: %v", err)
			}
			if got != tt.want {
				t.Errorf("overlap = %v, want %v", got, tt.want)
			}
		})
	}

	// Canceled appointments release their slot.
	if err := db.UpdateAppointmentStatus(ctx, "busy-1", models.StatusCanceled); err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}
	got, err := db.HasActiveAppointmentOverlap(ctx, start, start.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("canceled appointment must not block the slot")
	}
}

func TestUpdateAppointmentStatusUnknownReference(t *testing.T) {
	db := testDB(t)
	err := db.UpdateAppointmentStatus(context.Background(), "missing", models.StatusConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssessmentValidation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.CreateAssessment(ctx, &models.Assessment{Complaint: "x", BodyArea: "knee", PainLevel: 11}); err == nil {
		t.Error("pain level above 10 must be rejected")
	}

	id, err := db.CreateAssessment(ctx, &models.Assessment{
		Complaint: "stiff shoulder in the morning",
		BodyArea:  "shoulder",
		PainLevel: 6,
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	got, err := db.GetAssessment(ctx, id)
	if err != nil {
		t.Fatalf("GetAssessment: %v", err)
	}
	if got.BodyArea != "shoulder" || got.PainLevel != 6 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestListVideosFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seed := []*models.ExerciseVideo{
		{Title: "Knee warmup", BodyArea: "knee", Difficulty: "beginner", VideoURL: "https://cdn/v1", IsActive: true, SortOrder: 2},
		{Title: "Knee strength", BodyArea: "knee", Difficulty: "advanced", VideoURL: "https://cdn/v2", IsActive: true, SortOrder: 1},
		{Title: "Neck mobility", BodyArea: "neck", Difficulty: "beginner", VideoURL: "https://cdn/v3", IsActive: true},
		{Title: "Retired", BodyArea: "knee", Difficulty: "beginner", VideoURL: "https://cdn/v4", IsActive: false},
	}
	for _, v := range seed {
		if _, err := db.UpsertVideo(ctx, v); err != nil {
			t.Fatalf("UpsertVideo: %v", err)
		}
	}

	all, err := db.ListVideos(ctx, VideoFilter{})
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 active videos, got %d", len(all))
	}

	knee, err := db.ListVideos(ctx, VideoFilter{BodyArea: "knee"})
	if err != nil {
		t.Fatal(err)
	}
	if len(knee) != 2 {
		t.Fatalf("expected 2 knee videos, got %d", len(knee))
	}
	if knee[0].Title != "Knee strength" {
		t.Errorf("expected sort_order ordering, got %q first", knee[0].Title)
	}

	beginnerKnee, err := db.ListVideos(ctx, VideoFilter{BodyArea: "knee", Difficulty: "beginner"})
	if err != nil {
		t.Fatal(err)
	}
	if len(beginnerKnee) != 1 {
		t.Errorf("expected 1 beginner knee video, got %d", len(beginnerKnee))
	}
}

func TestDonationRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	d := &models.Donation{
		Reference:   "don-1",
		DonorEmail:  "donor@example.com",
		AmountCents: 2500,
		Currency:    "eur",
		Kind:        models.DonationOneOff,
		Status:      "created",
	}
	if _, err := db.CreateDonation(ctx, d); err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if err := db.UpdateDonationStatus(ctx, "don-1", "succeeded"); err != nil {
		t.Fatalf("UpdateDonationStatus: %v", err)
	}

	got, err := db.GetDonationByReference(ctx, "don-1")
	if err != nil {
		t.Fatalf("GetDonationByReference: %v", err)
	}
	if got.Status != "succeeded" || got.AmountCents != 2500 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
