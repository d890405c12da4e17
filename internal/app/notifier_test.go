package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage/file"
)

type frozenClock struct {
	t time.Time
}

func (c frozenClock) Now() time.Time { return c.t }

type recordingSender struct {
	sent    []*tgbot.SendMessageParams
	failFor map[int64]bool
}

func (r *recordingSender) SendMessage(_ context.Context, params *tgbot.SendMessageParams) (*models.Message, error) {
	id, _ := params.ChatID.(int64)
	if r.failFor[id] {
		return nil, errors.New("Forbidden: bot was blocked by the user")
	}
	r.sent = append(r.sent, params)
	return &models.Message{}, nil
}

func (r *recordingSender) textsFor(chatID int64) []string {
	var out []string
	for _, p := range r.sent {
		if id, _ := p.ChatID.(int64); id == chatID {
			out = append(out, p.Text)
		}
	}
	return out
}

type fixture struct {
	notifier   *Notifier
	sender     *recordingSender
	settings   *service.SettingsService
	schedule   *service.ScheduleService
	recipients *service.RecipientService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := file.New(t.TempDir())
	require.NoError(t, err)

	settings, err := service.NewSettingsService(ctx, store, 1, zap.NewNop())
	require.NoError(t, err)
	schedule, err := service.NewScheduleService(ctx, store, t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	recipients, err := service.NewRecipientService(ctx, store, zap.NewNop())
	require.NoError(t, err)

	sender := &recordingSender{failFor: map[int64]bool{}}
	broadcast := service.NewBroadcastService(sender, zap.NewNop())

	return &fixture{
		notifier:   NewNotifier(frozenClock{now}, settings, schedule, recipients, broadcast, zap.NewNop()),
		sender:     sender,
		settings:   settings,
		schedule:   schedule,
		recipients: recipients,
	}
}

// 2025-03-10 is a Monday.
func tashkent(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, clock.Zone)
}

func TestArmRemindersLeadTime(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 8, 10) // Tuesday 08:10
	f := newFixture(t, now)
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday", "09:00 - Fizika"))

	f.notifier.armReminders(now)

	require.Equal(t, 1, f.notifier.queue.Len())
	assert.Equal(t, tashkent(11, 8, 45), f.notifier.queue[0].fireAt, "fire instant is lesson start minus 15 minute lead")
	assert.Equal(t, "09:00", f.notifier.queue[0].lessonTime)
}

func TestArmRemindersInsideLeadWindow(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 8, 50) // past the 08:45 lead instant
	f := newFixture(t, now)
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday", "09:00 - Fizika"))

	f.notifier.armReminders(now)

	assert.Zero(t, f.notifier.queue.Len(), "no retroactive reminder inside the lead window")
}

func TestArmRemindersDeduplicatesAndSorts(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 5, 0)
	f := newFixture(t, now)
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday",
		"10:30 - Tarix\n08:00 - Matematika\n08:00 - Matematika"))

	f.notifier.armReminders(now)

	require.Equal(t, 2, f.notifier.queue.Len())
	assert.Equal(t, "08:00", f.notifier.queue[0].lessonTime, "heap head is the earliest lesson")
}

func TestArmRemindersIsolatesMalformedTokens(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 5, 0)
	f := newFixture(t, now)
	// 77:77 matches the HH:MM pattern but is not a valid clock reading.
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday",
		"77:77 - Sinov\n09:00 - Fizika"))

	f.notifier.armReminders(now)

	require.Equal(t, 1, f.notifier.queue.Len())
	assert.Equal(t, "09:00", f.notifier.queue[0].lessonTime)
}

func TestArmRemindersRestDay(t *testing.T) {
	f := newFixture(t, tashkent(16, 5, 0)) // Sunday
	f.notifier.armReminders(tashkent(16, 5, 0))
	assert.Zero(t, f.notifier.queue.Len())
}

func TestFireDueRemindersUsersOnly(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 8, 45)
	f := newFixture(t, now)
	_, err := f.recipients.AddUser(ctx, 100)
	require.NoError(t, err)
	_, err = f.recipients.AddGroup(ctx, -200)
	require.NoError(t, err)
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday", "09:00 - Fizika"))

	f.notifier.queue = reminderQueue{{fireAt: now, lessonTime: "09:00", day: "Tuesday"}}
	f.notifier.fireDueReminders(ctx)

	assert.Zero(t, f.notifier.queue.Len())
	userTexts := f.sender.textsFor(100)
	require.Len(t, userTexts, 1)
	assert.Contains(t, userTexts[0], "Fizika")
	assert.Empty(t, f.sender.textsFor(-200), "reminders never go to groups")
}

func TestFireDueRemindersGenericFallback(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 8, 45)
	f := newFixture(t, now)
	_, err := f.recipients.AddUser(ctx, 100)
	require.NoError(t, err)
	// The armed time no longer appears in the (edited) schedule.
	require.NoError(t, f.schedule.SetDay(ctx, model.VariantUpper, "Tuesday", "11:00 - Kimyo"))

	f.notifier.queue = reminderQueue{{fireAt: now, lessonTime: "09:00", day: "Tuesday"}}
	f.notifier.fireDueReminders(ctx)

	texts := f.sender.textsFor(100)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "dars boshlanadi", "edited-away lesson falls back to the generic reminder")
}

func TestMorningRotatesAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	now := tashkent(10, 6, 0) // Monday 06:00
	f := newFixture(t, now)
	_, err := f.recipients.AddUser(ctx, 100)
	require.NoError(t, err)
	_, err = f.recipients.AddGroup(ctx, -200)
	require.NoError(t, err)

	f.notifier.morning(ctx)

	assert.Equal(t, model.VariantLower, f.settings.Variant(), "Monday morning flips the persisted variant")

	userTexts := f.sender.textsFor(100)
	require.Len(t, userTexts, 1)
	assert.Contains(t, userTexts[0], "Pastgi hafta", "broadcast renders the post-rotation variant")
	require.Len(t, f.sender.textsFor(-200), 1)

	// Operator got a delivery report.
	opTexts := f.sender.textsFor(1)
	require.Len(t, opTexts, 1)
	assert.Contains(t, opTexts[0], "users=1/1")
	assert.Contains(t, opTexts[0], "groups=1/1")

	// Reminders derived for the new day: default Monday has three lessons.
	assert.Equal(t, 3, f.notifier.queue.Len())
}

func TestMorningSecondWakeSameDayDoesNotRotateAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, tashkent(10, 6, 0))

	f.notifier.morning(ctx)
	require.Equal(t, model.VariantLower, f.settings.Variant())

	f.notifier.morning(ctx)
	assert.Equal(t, model.VariantLower, f.settings.Variant(), "the flip happens exactly once per rotation day")
}

func TestEveningPreviewsRotationWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	now := tashkent(9, 18, 0) // Sunday evening, tomorrow is the rotation day
	f := newFixture(t, now)
	_, err := f.recipients.AddUser(ctx, 100)
	require.NoError(t, err)

	f.notifier.evening(ctx)

	texts := f.sender.textsFor(100)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Pastgi hafta", "tomorrow renders under the flipped variant")
	assert.Equal(t, model.VariantUpper, f.settings.Variant(), "the preview never persists the flip")
}

func TestEveningRestDay(t *testing.T) {
	ctx := context.Background()
	now := tashkent(15, 18, 0) // Saturday evening, tomorrow is Sunday
	f := newFixture(t, now)
	_, err := f.recipients.AddUser(ctx, 100)
	require.NoError(t, err)

	f.notifier.evening(ctx)

	texts := f.sender.textsFor(100)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Ertaga dars yo'q")
}

func TestBroadcastFailureDoesNotAffectOthers(t *testing.T) {
	ctx := context.Background()
	now := tashkent(11, 6, 0)
	f := newFixture(t, now)
	for _, id := range []int64{100, 200, 300} {
		_, err := f.recipients.AddUser(ctx, id)
		require.NoError(t, err)
	}
	f.sender.failFor[200] = true

	f.notifier.morning(ctx)

	assert.Len(t, f.sender.textsFor(100), 1)
	assert.Len(t, f.sender.textsFor(300), 1)

	opTexts := f.sender.textsFor(1)
	require.Len(t, opTexts, 1)
	assert.Contains(t, opTexts[0], "users=2/3")
}

func TestStartStop(t *testing.T) {
	f := newFixture(t, tashkent(11, 12, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.notifier.Start(ctx)
	f.notifier.Stop()
}
