// Package keyboard builds the reply and inline keyboards the bot attaches
// to its messages.
package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/sardorbek-uz/raspisanie-bot/internal/format"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

// Reply-button labels. The text handler matches on these exact strings.
const (
	BtnToday      = "📅 Bugun"
	BtnTomorrow   = "📅 Ertaga"
	BtnAdminPanel = "🧠 Admin panel"
	BtnBack       = "⬅️ Orqaga"

	BtnViewWeek       = "📋 Jadvalni ko'rish"
	BtnEditDay        = "✏️ Jadvalni tahrirlash"
	BtnAddDay         = "➕ Jadval qo'shish"
	BtnDeleteDay      = "🗑 Jadval o'chirish"
	BtnToggleVariant  = "🔁 Haftani almashtirish"
	BtnCurrentVariant = "📆 Hozirgi hafta turi"
	BtnStats          = "📊 Statistika"
	BtnBroadcast      = "📤 Barcha foydalanuvchilarga xabar"
	BtnBackup         = "💾 Backup yaratish"
	BtnManageAdmins   = "👥 Admin qo'sh / o'chirish"

	BtnWeekUpper = "Tepa hafta"
	BtnWeekLower = "Pastgi hafta"
)

func btn(text string) models.KeyboardButton {
	return models.KeyboardButton{Text: text}
}

// Main is the persistent menu keyboard for individual chats. Admins get an
// extra row opening the admin panel.
func Main(isAdmin bool) *models.ReplyKeyboardMarkup {
	days := append([]string(nil), model.Weekdays...)
	days = append(days, model.RestDay)

	var rows [][]models.KeyboardButton
	var row []models.KeyboardButton
	for _, day := range days {
		row = append(row, btn(format.DayLabel(day)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.KeyboardButton{btn(BtnToday), btn(BtnTomorrow)})
	if isAdmin {
		rows = append(rows, []models.KeyboardButton{btn(BtnAdminPanel)})
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// Admin is the admin panel menu.
func Admin() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{btn(BtnViewWeek), btn(BtnEditDay)},
			{btn(BtnAddDay), btn(BtnDeleteDay)},
			{btn(BtnToggleVariant), btn(BtnCurrentVariant)},
			{btn(BtnStats), btn(BtnBroadcast)},
			{btn(BtnBackup), btn(BtnManageAdmins)},
			{btn(BtnBack)},
		},
		ResizeKeyboard: true,
	}
}

// WeekChoice asks which variant an admin flow applies to.
func WeekChoice() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{btn(BtnWeekUpper), btn(BtnWeekLower)},
			{btn(BtnBack)},
		},
		ResizeKeyboard: true,
	}
}

// DayChoice asks which school day an admin flow applies to.
func DayChoice() *models.ReplyKeyboardMarkup {
	var rows [][]models.KeyboardButton
	var row []models.KeyboardButton
	for _, day := range model.Weekdays {
		row = append(row, btn(format.DayLabel(day)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.KeyboardButton{btn(BtnBack)})

	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// DayNav is the inline prev/current/next navigation attached to schedule
// views in groups, plus the weekly dump button.
func DayNav(day string, variant model.Variant) *models.InlineKeyboardMarkup {
	days := append(append([]string(nil), model.Weekdays...), model.RestDay)
	idx := 0
	for i, d := range days {
		if d == day {
			idx = i
			break
		}
	}
	prev := days[(idx+len(days)-1)%len(days)]
	next := days[(idx+1)%len(days)]

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "⬅️ " + format.DayLabel(prev), CallbackData: fmt.Sprintf("nav:%s:%s", prev, variant)},
				{Text: format.DayLabel(day), CallbackData: "nav:noop"},
				{Text: format.DayLabel(next) + " ➡️", CallbackData: fmt.Sprintf("nav:%s:%s", next, variant)},
			},
			{
				{Text: "📅 Haftalik", CallbackData: fmt.Sprintf("nav:weekly:%s", variant)},
			},
		},
	}
}

// GroupQuick is the today/tomorrow shortcut attached to group broadcasts.
func GroupQuick(day string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📅 Bugun", CallbackData: "grp_bugun:" + day},
				{Text: "📅 Ertaga", CallbackData: "grp_ertaga:" + day},
			},
		},
	}
}
