// Package handlers reacts to commands, reply-keyboard buttons and
// membership events, including the multi-step admin dialogs.
package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/state"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
)

// API is the slice of the Telegram client the message handlers need.
// *bot.Bot satisfies it.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	GetChatAdministrators(ctx context.Context, params *bot.GetChatAdministratorsParams) ([]models.ChatMember, error)
	GetMe(ctx context.Context) (*models.User, error)
}

// Handlers owns every message-driven entry point of the bot.
type Handlers struct {
	api        API
	schedule   *service.ScheduleService
	settings   *service.SettingsService
	recipients *service.RecipientService
	broadcast  *service.BroadcastService
	dialogs    *state.Manager
	clk        clock.Clock
	logger     *zap.Logger
}

func New(
	api API,
	schedule *service.ScheduleService,
	settings *service.SettingsService,
	recipients *service.RecipientService,
	broadcast *service.BroadcastService,
	dialogs *state.Manager,
	clk clock.Clock,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		api:        api,
		schedule:   schedule,
		settings:   settings,
		recipients: recipients,
		broadcast:  broadcast,
		dialogs:    dialogs,
		clk:        clk,
		logger:     logger,
	}
}

func isGroup(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

// isAdmin reports whether the sender may use the admin panel: either a
// configured bot admin, or an administrator of the group the message
// came from.
func (h *Handlers) isAdmin(ctx context.Context, msg *models.Message) bool {
	if msg.From == nil {
		return false
	}
	if h.settings.IsAdmin(msg.From.ID) {
		return true
	}
	if !isGroup(msg.Chat) {
		return false
	}

	members, err := h.api.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{
		ChatID: msg.Chat.ID,
	})
	if err != nil {
		h.logger.Warn("failed to list chat administrators",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err))
		return false
	}
	for _, m := range members {
		switch {
		case m.Owner != nil && m.Owner.User != nil && m.Owner.User.ID == msg.From.ID:
			return true
		case m.Administrator != nil && m.Administrator.User.ID == msg.From.ID:
			return true
		}
	}
	return false
}

// reply sends text back to the chat the message came from.
func (h *Handlers) reply(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := h.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
