package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/keyboard"
)

const joinedGroupText = "👋 Men guruhga qo'shildim — Raspisanie funktsiyalari hozir faqat adminlar tomonidan boshqarilishi mumkin."

// HandleMembership watches service messages for the bot itself joining
// or leaving a group and keeps the group registry in sync. It runs as
// the default handler since these messages carry no text.
func (h *Handlers) HandleMembership(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroup(msg.Chat) {
		return
	}
	if len(msg.NewChatMembers) == 0 && msg.LeftChatMember == nil {
		return
	}

	me, err := h.api.GetMe(ctx)
	if err != nil {
		h.logger.Error("failed to resolve bot identity", zap.Error(err))
		return
	}

	for _, member := range msg.NewChatMembers {
		if member.ID != me.ID {
			continue
		}
		wasNew, err := h.recipients.AddGroup(ctx, msg.Chat.ID)
		if err != nil {
			h.logger.Error("failed to register group", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
			return
		}
		if wasNew {
			h.logger.Info("joined group", zap.Int64("chat_id", msg.Chat.ID))
		}
		day := h.clk.Now().Weekday().String()
		h.reply(ctx, msg.Chat.ID, joinedGroupText, keyboard.GroupQuick(day))
		return
	}

	if left := msg.LeftChatMember; left != nil && left.ID == me.ID {
		if err := h.recipients.RemoveGroup(ctx, msg.Chat.ID); err != nil {
			h.logger.Error("failed to deregister group", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
			return
		}
		h.logger.Info("removed from group", zap.Int64("chat_id", msg.Chat.ID))
	}
}
