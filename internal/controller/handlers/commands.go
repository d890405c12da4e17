package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/keyboard"
	"github.com/sardorbek-uz/raspisanie-bot/internal/format"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

const welcomeText = "👋 *Assalomu alaykum!* Men — Raspisanie boti 🤖\nQuyidagi tugmalardan foydalaning:"

const groupWelcomeText = "👋 Men guruhda ishlashga tayyorman! Adminlar \"🧠 Admin panel\" orqali jadvalni boshqaradi."

const helpText = "📚 *Raspisanie bot yordam:*\n\n" +
	"🔹 /start — boshlash\n" +
	"🔹 /bugun yoki '📅 Bugun' — bugungi jadval\n" +
	"🔹 /ertaga yoki '📅 Ertaga' — ertangi jadval\n" +
	"🔹 Tugmalardan kunlarni tanlang (Dushanba..Shanba)\n" +
	"🔹 Guruhda adminlar '🧠 Admin panel' orqali jadvalni boshqaradi\n" +
	"🔹 Inline tugmalar orqali oldingi/keyingi kunni ko'rish mumkin\n" +
	"🔹 Har kuni 06:00 va 18:00 da avtomatik xabar yuboriladi"

// HandleStart subscribes the chat and shows today's schedule.
func (h *Handlers) HandleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if isGroup(msg.Chat) {
		wasNew, err := h.recipients.AddGroup(ctx, msg.Chat.ID)
		if err != nil {
			h.logger.Error("failed to register group", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		}
		if wasNew {
			h.logger.Info("group registered", zap.Int64("chat_id", msg.Chat.ID))
		}
		h.reply(ctx, msg.Chat.ID, groupWelcomeText, nil)
		h.sendToday(ctx, msg)
		return
	}

	wasNew, err := h.recipients.AddUser(ctx, msg.Chat.ID)
	if err != nil {
		h.logger.Error("failed to register user", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
	if wasNew {
		h.logger.Info("user registered", zap.Int64("chat_id", msg.Chat.ID))
	}
	h.reply(ctx, msg.Chat.ID, welcomeText, keyboard.Main(h.settings.IsAdmin(msg.From.ID)))
	h.sendToday(ctx, msg)
}

// HandleHelp sends the usage text.
func (h *Handlers) HandleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, update.Message.Chat.ID, helpText, nil)
}

// HandleToday is /bugun and the 📅 Bugun button.
func (h *Handlers) HandleToday(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendToday(ctx, update.Message)
}

// HandleTomorrow is /ertaga and the 📅 Ertaga button. The variant is
// previewed: when tomorrow is Monday and auto-switch is on, the shown
// week flips without persisting anything.
func (h *Handlers) HandleTomorrow(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendTomorrow(ctx, update.Message)
}

// handleMentionCommand dispatches commands addressed to this bot by
// name, the "/bugun@BotName" form group clients send when picking from
// the command menu. Commands addressed to other bots are ignored.
func (h *Handlers) handleMentionCommand(ctx context.Context, msg *models.Message) {
	first := strings.Fields(msg.Text)[0]
	cmd, mention, ok := strings.Cut(first, "@")
	if !ok {
		return
	}

	me, err := h.api.GetMe(ctx)
	if err != nil {
		h.logger.Error("failed to resolve bot identity", zap.Error(err))
		return
	}
	if !strings.EqualFold(mention, me.Username) {
		return
	}

	update := &models.Update{Message: msg}
	switch cmd {
	case "/start":
		h.HandleStart(ctx, nil, update)
	case "/help":
		h.HandleHelp(ctx, nil, update)
	case "/bugun":
		h.HandleToday(ctx, nil, update)
	case "/ertaga":
		h.HandleTomorrow(ctx, nil, update)
	}
}

func (h *Handlers) sendToday(ctx context.Context, msg *models.Message) {
	day := h.clk.Now().Weekday().String()
	variant := h.settings.Variant()
	text := format.RenderDay(h.schedule.Snapshot(), day, variant)
	h.sendDayText(ctx, msg, day, variant, text)
}

// sendDay renders an explicit day under the current variant.
func (h *Handlers) sendDay(ctx context.Context, msg *models.Message, day string) {
	variant := h.settings.Variant()
	text := format.RenderDay(h.schedule.Snapshot(), day, variant)
	h.sendDayText(ctx, msg, day, variant, text)
}

// sendDayText picks the markup by chat type: inline navigation in
// groups, the persistent menu in private chats.
func (h *Handlers) sendDayText(ctx context.Context, msg *models.Message, day string, variant model.Variant, text string) {
	if isGroup(msg.Chat) {
		h.reply(ctx, msg.Chat.ID, text, keyboard.DayNav(day, variant))
		return
	}
	isAdmin := msg.From != nil && h.settings.IsAdmin(msg.From.ID)
	h.reply(ctx, msg.Chat.ID, text, keyboard.Main(isAdmin))
}
