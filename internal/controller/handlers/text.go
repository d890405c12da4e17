package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/keyboard"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/state"
	"github.com/sardorbek-uz/raspisanie-bot/internal/format"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

// HandleText is the catch-all for plain text: menu buttons and pending
// admin dialog input. Commands are handled by their own handlers.
func (h *Handlers) HandleText(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		// Bare commands never reach this handler; the mention-qualified
		// form clients send in groups does.
		h.handleMentionCommand(ctx, msg)
		return
	}

	if d := h.dialogs.Get(msg.From.ID); d.Step != state.StepNone {
		// A recognized top-level button cancels the pending step and is
		// then handled normally — unless it is the answer the step is
		// waiting for: a day button during the day choice belongs to the
		// dialog, not the menu.
		if isMenuButton(msg.Text) && !answersStep(d.Step, msg.Text) {
			h.dialogs.Clear(msg.From.ID)
		} else {
			h.continueDialog(ctx, msg, d)
			return
		}
	}

	h.handleMenu(ctx, msg)
}

// answersStep reports whether a button press that doubles as a menu
// entry is the expected answer to the pending step.
func answersStep(step state.Step, text string) bool {
	if step != state.StepAwaitingDayChoice {
		return false
	}
	day, ok := format.DayFromLabel(text)
	return ok && format.IsWeekday(day)
}

func isMenuButton(text string) bool {
	if _, ok := format.DayFromLabel(text); ok {
		return true
	}
	switch text {
	case keyboard.BtnToday, keyboard.BtnTomorrow, keyboard.BtnAdminPanel,
		keyboard.BtnViewWeek, keyboard.BtnEditDay, keyboard.BtnAddDay,
		keyboard.BtnDeleteDay, keyboard.BtnToggleVariant, keyboard.BtnCurrentVariant,
		keyboard.BtnStats, keyboard.BtnBroadcast, keyboard.BtnBackup,
		keyboard.BtnManageAdmins:
		return true
	}
	return false
}

func (h *Handlers) handleMenu(ctx context.Context, msg *models.Message) {
	if day, ok := format.DayFromLabel(msg.Text); ok {
		h.sendDay(ctx, msg, day)
		return
	}

	switch msg.Text {
	case keyboard.BtnToday:
		h.sendToday(ctx, msg)
	case keyboard.BtnTomorrow:
		h.sendTomorrow(ctx, msg)
	case keyboard.BtnBack:
		isAdmin := h.settings.IsAdmin(msg.From.ID)
		h.reply(ctx, msg.Chat.ID, "🏠 Asosiy menyu:", keyboard.Main(isAdmin))
	case keyboard.BtnAdminPanel:
		h.openAdminPanel(ctx, msg)
	case keyboard.BtnViewWeek:
		h.adminGate(ctx, msg, h.adminViewWeek)
	case keyboard.BtnEditDay:
		h.adminGate(ctx, msg, func(ctx context.Context, msg *models.Message) {
			h.startScheduleFlow(ctx, msg, state.OpEdit)
		})
	case keyboard.BtnAddDay:
		h.adminGate(ctx, msg, func(ctx context.Context, msg *models.Message) {
			h.startScheduleFlow(ctx, msg, state.OpAdd)
		})
	case keyboard.BtnDeleteDay:
		h.adminGate(ctx, msg, func(ctx context.Context, msg *models.Message) {
			h.startScheduleFlow(ctx, msg, state.OpDelete)
		})
	case keyboard.BtnToggleVariant:
		h.adminGate(ctx, msg, h.adminToggleVariant)
	case keyboard.BtnCurrentVariant:
		h.adminGate(ctx, msg, h.adminCurrentVariant)
	case keyboard.BtnStats:
		h.adminGate(ctx, msg, h.adminStats)
	case keyboard.BtnBroadcast:
		h.adminGate(ctx, msg, h.adminBroadcastStart)
	case keyboard.BtnBackup:
		h.adminGate(ctx, msg, h.adminBackup)
	case keyboard.BtnManageAdmins:
		h.adminGate(ctx, msg, h.adminManageAdmins)
	}
}

func (h *Handlers) sendTomorrow(ctx context.Context, msg *models.Message) {
	tomorrow := h.clk.Now().AddDate(0, 0, 1)
	day := tomorrow.Weekday().String()
	variant := h.settings.PreviewVariant(tomorrow)
	var text string
	if day == model.RestDay {
		text = format.RestDayTomorrow
	} else {
		text = format.RenderDay(h.schedule.Snapshot(), day, variant)
	}
	h.sendDayText(ctx, msg, day, variant, text)
}

// ---- admin panel ----

func (h *Handlers) adminGate(ctx context.Context, msg *models.Message, fn func(context.Context, *models.Message)) {
	if !h.isAdmin(ctx, msg) {
		return
	}
	fn(ctx, msg)
}

func (h *Handlers) openAdminPanel(ctx context.Context, msg *models.Message) {
	if !h.isAdmin(ctx, msg) {
		h.reply(ctx, msg.Chat.ID, "⛔ Bu bo'lim faqat adminlar uchun.", nil)
		return
	}
	text := "🧠 *Admin panel (shaxsiy)*\nQuyidagi tugmalardan tanlang:"
	if isGroup(msg.Chat) {
		text = "🧠 *Admin panel (guruh)*\nQuyidagi tugmalardan tanlang:"
	}
	h.reply(ctx, msg.Chat.ID, text, keyboard.Admin())
}

func (h *Handlers) adminViewWeek(ctx context.Context, msg *models.Message) {
	variant := h.settings.Variant()
	h.reply(ctx, msg.Chat.ID, format.RenderWeek(h.schedule.Snapshot(), variant), keyboard.Admin())
}

func (h *Handlers) startScheduleFlow(ctx context.Context, msg *models.Message, op state.Op) {
	h.dialogs.Set(msg.From.ID, state.Dialog{Step: state.StepAwaitingWeekChoice, Op: op})

	var prompt string
	switch op {
	case state.OpEdit:
		prompt = "📝 Qaysi haftani tahrirlamoqchisiz?"
	case state.OpAdd:
		prompt = "➕ Qaysi haftaga yangi jadval qo'shmoqchisiz?"
	case state.OpDelete:
		prompt = "🗑 Qaysi haftadan o'chirmoqchisiz?"
	}
	h.reply(ctx, msg.Chat.ID, prompt, keyboard.WeekChoice())
}

func (h *Handlers) adminToggleVariant(ctx context.Context, msg *models.Message) {
	variant, err := h.settings.ToggleVariant(ctx)
	if err != nil {
		h.logger.Error("failed to toggle week variant", zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Saqlashda xato yuz berdi.", keyboard.Admin())
		return
	}
	h.reply(ctx, msg.Chat.ID,
		fmt.Sprintf("🔄 Hafta turi o'zgardi. Hozir: *%s*", variant.Label()),
		keyboard.Admin())
}

func (h *Handlers) adminCurrentVariant(ctx context.Context, msg *models.Message) {
	h.reply(ctx, msg.Chat.ID,
		fmt.Sprintf("📅 Hozir: *%s*", h.settings.Variant().Label()),
		keyboard.Admin())
}

func (h *Handlers) adminStats(ctx context.Context, msg *models.Message) {
	users, groups := h.recipients.Counts()
	last := h.recipients.LastUsers(10)
	text := fmt.Sprintf(
		"📊 *Statistika:*\n\n👥 Foydalanuvchilar: *%d*\n👥 Guruhlar: *%d*\n\n🆔 Oxirgi 10 foydalanuvchi: `%v`",
		users, groups, last)
	h.reply(ctx, msg.Chat.ID, text, keyboard.Admin())
}

func (h *Handlers) adminBroadcastStart(ctx context.Context, msg *models.Message) {
	h.dialogs.Set(msg.From.ID, state.Dialog{Step: state.StepAwaitingBroadcastText})
	h.reply(ctx, msg.Chat.ID, "📨 Yubormoqchi bo'lgan xabaringizni kiriting:", nil)
}

func (h *Handlers) adminBackup(ctx context.Context, msg *models.Message) {
	path, err := h.schedule.Backup(h.clk.Now())
	if err != nil {
		h.logger.Error("failed to write backup", zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Backup yaratishda xato.", keyboard.Admin())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.logger.Error("failed to open backup file", zap.String("path", path), zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Backup yuborishda xato.", keyboard.Admin())
		return
	}
	defer f.Close()

	name := filepath.Base(path)
	_, err = h.api.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:      msg.Chat.ID,
		Document:    &models.InputFileUpload{Filename: name, Data: f},
		Caption:     "💾 Backup: " + name,
		ReplyMarkup: keyboard.Admin(),
	})
	if err != nil {
		h.logger.Error("failed to send backup document", zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Backup yuborishda xato.", keyboard.Admin())
	}
}

func (h *Handlers) adminManageAdmins(ctx context.Context, msg *models.Message) {
	h.dialogs.Set(msg.From.ID, state.Dialog{Step: state.StepAwaitingAdminID})
	h.reply(ctx, msg.Chat.ID,
		"🧑‍💼 Iltimos, qo'shmoq/o'chirmoqchi bo'lgan admin ID sini yuboring (raqam):", nil)
}

// ---- dialog steps ----

func (h *Handlers) continueDialog(ctx context.Context, msg *models.Message, d state.Dialog) {
	if msg.Text == keyboard.BtnBack {
		h.dialogs.Clear(msg.From.ID)
		h.reply(ctx, msg.Chat.ID, "❌ Bekor qilindi.", keyboard.Admin())
		return
	}

	switch d.Step {
	case state.StepAwaitingWeekChoice:
		h.dialogWeekChoice(ctx, msg, d)
	case state.StepAwaitingDayChoice:
		h.dialogDayChoice(ctx, msg, d)
	case state.StepAwaitingScheduleText:
		h.dialogScheduleText(ctx, msg, d)
	case state.StepAwaitingAdminID:
		h.dialogAdminID(ctx, msg)
	case state.StepAwaitingBroadcastText:
		h.dialogBroadcastText(ctx, msg)
	}
}

func (h *Handlers) dialogWeekChoice(ctx context.Context, msg *models.Message, d state.Dialog) {
	var variant model.Variant
	switch msg.Text {
	case keyboard.BtnWeekUpper:
		variant = model.VariantUpper
	case keyboard.BtnWeekLower:
		variant = model.VariantLower
	default:
		h.dialogs.Clear(msg.From.ID)
		h.reply(ctx, msg.Chat.ID, "❌ Noto'g'ri tugma, bekor qilindi.", keyboard.Admin())
		return
	}

	d.Variant = variant
	d.Step = state.StepAwaitingDayChoice
	h.dialogs.Set(msg.From.ID, d)

	var prompt string
	switch d.Op {
	case state.OpEdit:
		prompt = fmt.Sprintf("✍️ %s — Qaysi kunni tahrirlaysiz?", msg.Text)
	case state.OpAdd:
		prompt = "➕ Qaysi kun uchun qo'shmoqchisiz?"
	case state.OpDelete:
		prompt = "🗑 Qaysi kunni o'chirmoqchisiz?"
	}
	h.reply(ctx, msg.Chat.ID, prompt, keyboard.DayChoice())
}

func (h *Handlers) dialogDayChoice(ctx context.Context, msg *models.Message, d state.Dialog) {
	day, ok := format.DayFromLabel(msg.Text)
	if !ok || !format.IsWeekday(day) {
		h.dialogs.Clear(msg.From.ID)
		h.reply(ctx, msg.Chat.ID, "❌ Noto'g'ri tugma, bekor qilindi.", keyboard.Admin())
		return
	}

	if d.Op == state.OpDelete {
		h.dialogs.Clear(msg.From.ID)
		existed, err := h.schedule.DeleteDay(ctx, d.Variant, day)
		if err != nil {
			h.logger.Error("failed to delete day", zap.String("day", day), zap.Error(err))
			h.reply(ctx, msg.Chat.ID, "❌ Saqlashda xato yuz berdi.", keyboard.Admin())
			return
		}
		if !existed {
			h.reply(ctx, msg.Chat.ID, "❌ Bu kun uchun jadval topilmadi.", keyboard.Admin())
			return
		}
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("🗑 %s o'chirildi.", format.DayLabel(day)), keyboard.Admin())
		return
	}

	d.Day = day
	d.Step = state.StepAwaitingScheduleText
	h.dialogs.Set(msg.From.ID, d)

	prompt := "➕ Yangi jadval matnini kiriting:"
	if d.Op == state.OpEdit {
		prompt = fmt.Sprintf(
			"✍️ %s uchun yangi jadvalni matn ko'rinishida yuboring.\nHar qator `HH:MM - Fan nomi` formatida bo'lsin.",
			format.DayLabel(day))
	}
	h.reply(ctx, msg.Chat.ID, prompt, nil)
}

func (h *Handlers) dialogScheduleText(ctx context.Context, msg *models.Message, d state.Dialog) {
	h.dialogs.Clear(msg.From.ID)

	if err := h.schedule.SetDay(ctx, d.Variant, d.Day, strings.TrimSpace(msg.Text)); err != nil {
		h.logger.Error("failed to save day",
			zap.String("day", d.Day),
			zap.String("variant", string(d.Variant)),
			zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Saqlashda xato yuz berdi.", keyboard.Admin())
		return
	}

	var confirm string
	if d.Op == state.OpAdd {
		confirm = fmt.Sprintf("✅ Qo'shildi: %s", format.DayLabel(d.Day))
	} else {
		confirm = fmt.Sprintf("✅ Jadval yangilandi: *%s* (%s)", format.DayLabel(d.Day), d.Variant.Label())
	}
	h.reply(ctx, msg.Chat.ID, confirm, keyboard.Admin())
}

func (h *Handlers) dialogAdminID(ctx context.Context, msg *models.Message) {
	h.dialogs.Clear(msg.From.ID)

	id, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		h.reply(ctx, msg.Chat.ID, "❌ Noto'g'ri format. Iltimos faqat raqam yuboring.", keyboard.Admin())
		return
	}

	added, err := h.settings.ToggleAdmin(ctx, id)
	if err != nil {
		h.logger.Error("failed to toggle admin", zap.Int64("admin_id", id), zap.Error(err))
		h.reply(ctx, msg.Chat.ID, "❌ Saqlashda xato yuz berdi.", keyboard.Admin())
		return
	}
	if added {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("➕ Yangi admin (ID: %d) qo'shildi.", id), keyboard.Admin())
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("🗑 Admin (ID: %d) o'chirildi.", id), keyboard.Admin())
}

func (h *Handlers) dialogBroadcastText(ctx context.Context, msg *models.Message) {
	h.dialogs.Clear(msg.From.ID)

	text := "📢 *ADMIN:* \n\n" + msg.Text
	report := h.broadcast.Send(ctx, h.recipients.Users(), text, func(chatID int64) models.ReplyMarkup {
		return keyboard.Main(h.settings.IsAdmin(chatID))
	})
	h.reply(ctx, msg.Chat.ID,
		fmt.Sprintf("✅ Xabar %d foydalanuvchiga yuborildi.", report.Succeeded),
		keyboard.Admin())
}
