package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"physiocare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func testAppointment() *models.Appointment {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &models.Appointment{
		Reference:   "ref-abc",
		PatientName: "Jan de Vries",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}
}

func TestBookingCreatedMessage(t *testing.T) {
	bot := &fakeBot{}
	logger := zerolog.Nop()
	n := newNotifier(bot, 42, &logger)

	n.BookingCreated(context.Background(), testAppointment())

	if len(bot.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 42 {
		t.Errorf("wrong chat: %d", msg.ChatID)
	}
	for _, want := range []string{"New booking", "ref-abc", "Jan de Vries", "10:00 – 11:00"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("message missing %q:\n%s", want, msg.Text)
		}
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	bot := &fakeBot{err: errors.New("telegram down")}
	logger := zerolog.Nop()
	n := newNotifier(bot, 42, &logger)

	// Must not panic or propagate.
	n.BookingCanceled(context.Background(), testAppointment())
}
