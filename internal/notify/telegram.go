// Package notify pings the practice's admin Telegram chat about
// booking activity. Delivery is best-effort: failures are logged and
// never reach the patient flow.
package notify

import (
	"context"
	"fmt"

	"physiocare/internal/datefmt"
	"physiocare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// MessageSender is the slice of the Telegram API the notifier needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends admin notifications, rate limited so a burst
// of bookings cannot trip Telegram's flood control.
type TelegramNotifier struct {
	bot     MessageSender
	chatID  int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegramNotifier connects the bot and targets the admin chat.
func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newNotifier(bot, chatID, logger), nil
}

func newNotifier(bot MessageSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		logger:  logger,
	}
}

// BookingCreated announces a new appointment.
func (n *TelegramNotifier) BookingCreated(ctx context.Context, a *models.Appointment) {
	n.send(ctx, fmt.Sprintf("New booking %s\n%s\n%s",
		a.Reference,
		a.PatientName,
		datefmt.Appointment(a.StartTime, a.EndTime),
	))
}

// BookingCanceled announces a cancellation.
func (n *TelegramNotifier) BookingCanceled(ctx context.Context, a *models.Appointment) {
	n.send(ctx, fmt.Sprintf("Canceled booking %s\n%s\n%s",
		a.Reference,
		a.PatientName,
		datefmt.Appointment(a.StartTime, a.EndTime),
	))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if err := n.limiter.Wait(ctx); err != nil {
		n.logger.Debug().Err(err).Msg("admin notification dropped")
		return
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.logger.Error().Err(err).Msg("admin notification failed")
	}
}
