package service

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender is the slice of the chat transport the dispatcher needs.
// *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Report summarizes one fan-out batch for the operator.
type Report struct {
	BatchID   string
	Attempted int
	Succeeded int
}

// MarkupFunc renders the controls attached for one recipient. Individual
// subscribers get a per-user reply keyboard (admins see an extra row),
// groups get shared inline buttons; nil means no controls.
type MarkupFunc func(chatID int64) models.ReplyMarkup

// BroadcastService delivers one rendered message to every recipient in a
// target set. A failed delivery (blocked bot, deleted chat, transport
// error) is logged and the batch continues; recipients are never dropped
// from the registry because of a failure.
type BroadcastService struct {
	sender Sender
	logger *zap.Logger
}

func NewBroadcastService(sender Sender, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{sender: sender, logger: logger}
}

// Send fans text out to every id in recipients.
func (s *BroadcastService) Send(ctx context.Context, recipients []int64, text string, markup MarkupFunc) Report {
	rep := Report{
		BatchID:   uuid.NewString(),
		Attempted: len(recipients),
	}

	for _, id := range recipients {
		params := &bot.SendMessageParams{
			ChatID:    id,
			Text:      text,
			ParseMode: models.ParseModeMarkdown,
		}
		if markup != nil {
			params.ReplyMarkup = markup(id)
		}

		if _, err := s.sender.SendMessage(ctx, params); err != nil {
			s.logger.Warn("Broadcast delivery failed",
				zap.String("batch_id", rep.BatchID),
				zap.Int64("chat_id", id),
				zap.Error(err))
			continue
		}
		rep.Succeeded++
	}

	s.logger.Info("Broadcast batch finished",
		zap.String("batch_id", rep.BatchID),
		zap.Int("attempted", rep.Attempted),
		zap.Int("succeeded", rep.Succeeded))
	return rep
}

// NotifyOperator sends a batch summary to the operator chat. Best effort:
// a failure here is only logged.
func (s *BroadcastService) NotifyOperator(ctx context.Context, operatorID int64, text string) {
	if operatorID == 0 {
		return
	}
	if _, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: operatorID,
		Text:   text,
	}); err != nil {
		s.logger.Warn("Operator notification failed",
			zap.Int64("chat_id", operatorID),
			zap.Error(err))
	}
}

// FormatReport renders a delivery report line for the operator message.
func FormatReport(label string, users, groups Report) string {
	return fmt.Sprintf("📤 %s: users=%d/%d, groups=%d/%d",
		label, users.Succeeded, users.Attempted, groups.Succeeded, groups.Attempted)
}
