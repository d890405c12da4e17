package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/keyboard"
	"github.com/sardorbek-uz/raspisanie-bot/internal/format"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
)

// API is the slice of the Telegram client the callback handler needs.
// *bot.Bot satisfies it.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Handler routes inline keyboard taps.
type Handler struct {
	api      API
	schedule *service.ScheduleService
	settings *service.SettingsService
	clk      clock.Clock
	logger   *zap.Logger
}

func NewHandler(api API, schedule *service.ScheduleService, settings *service.SettingsService, clk clock.Clock, logger *zap.Logger) *Handler {
	return &Handler{
		api:      api,
		schedule: schedule,
		settings: settings,
		clk:      clk,
		logger:   logger,
	}
}

// HandleCallbackQuery is the single entry point for every callback query.
func (h *Handler) HandleCallbackQuery(ctx context.Context, _ *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	act := Parse(callback.Data)
	h.logger.Debug("callback received",
		zap.String("data", callback.Data),
		zap.Int64("from", callback.From.ID))

	switch a := act.(type) {
	case Noop:
		h.answer(ctx, callback.ID, "📌 Bu hozirgi kun.")
	case DayNav:
		text := format.RenderDay(h.schedule.Snapshot(), a.Day, a.Variant)
		h.show(ctx, callback, text, keyboard.DayNav(a.Day, a.Variant))
		h.answer(ctx, callback.ID, "")
	case WeeklyView:
		text := format.RenderWeek(h.schedule.Snapshot(), a.Variant)
		day := h.clk.Now().Weekday().String()
		h.show(ctx, callback, text, keyboard.DayNav(day, a.Variant))
		h.answer(ctx, callback.ID, "")
	case GroupToday:
		now := h.clk.Now()
		day := now.Weekday().String()
		text := format.RenderDay(h.schedule.Snapshot(), day, h.settings.Variant())
		h.send(ctx, callback, text, keyboard.GroupQuick(day))
		h.answer(ctx, callback.ID, "")
	case GroupTomorrow:
		tomorrow := h.clk.Now().AddDate(0, 0, 1)
		day := tomorrow.Weekday().String()
		var text string
		if day == model.RestDay {
			text = format.RestDayTomorrow
		} else {
			text = format.RenderDay(h.schedule.Snapshot(), day, h.settings.PreviewVariant(tomorrow))
		}
		h.send(ctx, callback, text, keyboard.GroupQuick(h.clk.Now().Weekday().String()))
		h.answer(ctx, callback.ID, "")
	case Unknown:
		h.logger.Warn("unknown callback",
			zap.String("data", a.Data),
			zap.Int64("from", callback.From.ID))
		h.answer(ctx, callback.ID, "")
	}
}

// show edits the tapped message in place, falling back to a fresh send
// when the message is no longer editable.
func (h *Handler) show(ctx context.Context, callback *models.CallbackQuery, text string, markup models.ReplyMarkup) {
	msg := callback.Message.Message
	if msg == nil {
		h.logger.Warn("callback without accessible message", zap.String("data", callback.Data))
		return
	}
	_, err := h.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Debug("edit failed, sending instead", zap.Error(err))
		h.send(ctx, callback, text, markup)
	}
}

func (h *Handler) send(ctx context.Context, callback *models.CallbackQuery, text string, markup models.ReplyMarkup) {
	msg := callback.Message.Message
	if msg == nil {
		return
	}
	_, err := h.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("failed to send callback reply",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err))
	}
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	_, err := h.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Debug("failed to answer callback", zap.Error(err))
	}
}
