// Package format renders schedule documents into Telegram Markdown and
// extracts lesson times from the free-text day listings.
package format

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

// Fixed rest-day messages. /bugun, day buttons and inline navigation use
// the "today" wording; only the 18:00 broadcast speaks about tomorrow.
const (
	RestDayToday    = "🌞 *Yakshanba* — Bugun dars yo'q! 😎\nDam oling!"
	RestDayTomorrow = "🌞 *Yakshanba* — Ertaga dars yo'q! 😎\nDam oling!"
)

var dayLabels = map[string]string{
	"Monday":    "📘 Dushanba",
	"Tuesday":   "📗 Seshanba",
	"Wednesday": "📙 Chorshanba",
	"Thursday":  "📒 Payshanba",
	"Friday":    "📔 Juma",
	"Saturday":  "📕 Shanba",
	"Sunday":    "🌞 Yakshanba",
}

var labelDays = func() map[string]string {
	m := make(map[string]string, len(dayLabels))
	for day, label := range dayLabels {
		m[label] = day
	}
	return m
}()

// DayLabel returns the Uzbek button label for an English weekday name.
func DayLabel(day string) string {
	if label, ok := dayLabels[day]; ok {
		return label
	}
	return day
}

// DayFromLabel resolves a button label back to the English weekday name.
func DayFromLabel(label string) (string, bool) {
	day, ok := labelDays[label]
	return day, ok
}

// IsWeekday reports whether day is a known school-week day name.
func IsWeekday(day string) bool {
	for _, d := range model.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

var (
	timeRe   = regexp.MustCompile(`(\d{1,2}:\d{2})`)
	lessonRe = regexp.MustCompile(`^\s*(\d{1,2}:\d{2})\s*-\s*(.+)$`)
)

// RenderDay produces the display text for one weekday of one variant.
// The rest day always yields the fixed rest message; a missing day entry
// yields an explicit not-found message, never an empty string.
func RenderDay(table model.WeekTable, day string, variant model.Variant) string {
	if day == model.RestDay {
		return RestDayToday
	}

	text, ok := table[variant][day]
	if !ok || strings.TrimSpace(text) == "" {
		return fmt.Sprintf("❌ *%s* uchun jadval topilmadi.", DayLabel(day))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 *%s* — *%s*\n\n", DayLabel(day), variant.Label())

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := lessonRe.FindStringSubmatch(line); m != nil {
			fmt.Fprintf(&b, "⏰ `%s` — *%s*", m[1], m[2])
		} else {
			fmt.Fprintf(&b, "• %s", line)
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderWeek dumps the whole school week of one variant.
func RenderWeek(table model.WeekTable, variant model.Variant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *%s* — Haftalik jadval:\n\n", variant.Label())

	for _, day := range model.Weekdays {
		text, ok := table[variant][day]
		if !ok || strings.TrimSpace(text) == "" {
			text = "—"
		}
		fmt.Fprintf(&b, "🗓 *%s*\n%s\n\n", DayLabel(day), text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ExtractTimes collects every distinct HH:MM token in the day's text,
// deduplicated and sorted ascending.
func ExtractTimes(text string) []string {
	seen := make(map[string]struct{})
	var times []string
	for _, t := range timeRe.FindAllString(text, -1) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	sort.Strings(times)
	return times
}

// SubjectAt finds the subject taught at lesson time t by scanning the
// day's text for the first line containing t and splitting on the first
// dash after the time. Empty when no line matches.
func SubjectAt(text, t string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, t) {
			continue
		}
		if _, subject, ok := strings.Cut(line, "-"); ok {
			return strings.TrimSpace(subject)
		}
		return ""
	}
	return ""
}

// ParseClock validates and splits an HH:MM token.
func ParseClock(t string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return 0, 0, fmt.Errorf("parse lesson time %q: missing colon", t)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lesson time %q: %w", t, err)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lesson time %q: %w", t, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("parse lesson time %q: out of range", t)
	}
	return hour, minute, nil
}

// ReminderText builds the per-lesson reminder. When the schedule was
// edited after arming and the time no longer matches a line, subject is
// empty and the generic wording is used.
func ReminderText(t, subject string) string {
	if subject == "" {
		return fmt.Sprintf("🔔 *Eslatma!* `%s` da dars boshlanadi. Tayyorlaning!", t)
	}
	return fmt.Sprintf("🔔 *Eslatma!* `%s` da *%s* boshlanadi. Tayyorlaning!", t, subject)
}
