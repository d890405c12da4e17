package app

import (
	"container/heap"
	"context"
	"time"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller/keyboard"
	"github.com/sardorbek-uz/raspisanie-bot/internal/format"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
)

// The two fixed daily broadcast instants, local wall-clock.
const (
	morningHour = 6
	eveningHour = 18
)

type wakeKind int

const (
	wakeMorning wakeKind = iota
	wakeEvening
	wakeReminder
)

// reminder is an ephemeral per-lesson countdown. Never persisted: on
// restart the pending set is re-derived from the schedule for the rest of
// the current day.
type reminder struct {
	fireAt     time.Time
	lessonTime string
	day        string
}

// reminderQueue is a min-heap ordered by fire instant, owned by the
// notifier loop. Re-armed wholesale after each morning broadcast and at
// startup, which also acts as cancellation of the previous day's set.
type reminderQueue []reminder

func (q reminderQueue) Len() int           { return len(q) }
func (q reminderQueue) Less(i, j int) bool { return q[i].fireAt.Before(q[j].fireAt) }
func (q reminderQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *reminderQueue) Push(x any)        { *q = append(*q, x.(reminder)) }
func (q *reminderQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Notifier drives all time-based behavior from one control loop: the 06:00
// and 18:00 broadcasts, the automatic Monday variant rotation, and the
// per-lesson reminders.
type Notifier struct {
	clk        clock.Clock
	settings   *service.SettingsService
	schedule   *service.ScheduleService
	recipients *service.RecipientService
	broadcast  *service.BroadcastService
	logger     *zap.Logger

	stopChan chan struct{}

	// Touched only by Start (before the loop exists) and the loop
	// goroutine itself.
	queue reminderQueue
}

func NewNotifier(
	clk clock.Clock,
	settings *service.SettingsService,
	schedule *service.ScheduleService,
	recipients *service.RecipientService,
	broadcast *service.BroadcastService,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		clk:        clk,
		settings:   settings,
		schedule:   schedule,
		recipients: recipients,
		broadcast:  broadcast,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start arms reminders for the remainder of the current day and launches
// the control loop.
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info("Starting notification engine")
	n.armReminders(n.clk.Now())
	go n.run(ctx)
}

// Stop terminates the control loop. Pending reminders are discarded.
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notification engine")
	close(n.stopChan)
}

func (n *Notifier) run(ctx context.Context) {
	for {
		now := n.clk.Now()

		// The two daily instants are evaluated independently every
		// iteration, so a delayed wake still fires the overdue event:
		// the kind is chosen before sleeping and handled regardless of
		// how late the timer fires.
		wait := clock.Until(now, morningHour, 0)
		kind := wakeMorning
		if d := clock.Until(now, eveningHour, 0); d < wait {
			wait, kind = d, wakeEvening
		}
		if len(n.queue) > 0 {
			if d := n.queue[0].fireAt.Sub(now); d < wait {
				wait, kind = d, wakeReminder
				if wait < 0 {
					wait = 0
				}
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			switch kind {
			case wakeMorning:
				n.morning(ctx)
			case wakeEvening:
				n.evening(ctx)
			case wakeReminder:
				n.fireDueReminders(ctx)
			}
		case <-n.stopChan:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			n.logger.Info("Notification engine cancelled")
			return
		}
	}
}

// morning performs the 06:00 broadcast: Monday rotation first (persisted
// before any rendering), then today's schedule to users and groups, then
// today's reminder set.
func (n *Notifier) morning(ctx context.Context) {
	now := n.clk.Now()
	if !n.settings.Current().MorningBroadcast {
		return
	}

	_, variant, err := n.settings.RotateIfDue(ctx, now)
	if err != nil {
		n.logger.Error("Monday rotation failed", zap.Error(err))
	}

	day := now.Weekday().String()
	text := format.RenderDay(n.schedule.Snapshot(), day, variant)

	usersRep := n.broadcast.Send(ctx, n.recipients.Users(), text, n.userMarkup())
	groupsRep := n.broadcast.Send(ctx, n.recipients.Groups(), text, groupMarkup(day))

	n.armReminders(now)

	n.broadcast.NotifyOperator(ctx, n.settings.OperatorID(),
		service.FormatReport("06:00: Ertalabki jadval yuborildi", usersRep, groupsRep))
}

// evening performs the 18:00 broadcast: tomorrow's schedule rendered under
// the preview variant. When tomorrow is the rotation day the flipped
// variant is used for display only; the persisted flip happens the next
// morning.
func (n *Notifier) evening(ctx context.Context) {
	now := n.clk.Now()
	if !n.settings.Current().EveningBroadcast {
		return
	}

	tomorrow := now.AddDate(0, 0, 1)
	day := tomorrow.Weekday().String()
	variant := n.settings.PreviewVariant(tomorrow)

	var text string
	if day == model.RestDay {
		text = format.RestDayTomorrow
	} else {
		text = format.RenderDay(n.schedule.Snapshot(), day, variant)
	}

	usersRep := n.broadcast.Send(ctx, n.recipients.Users(), text, n.userMarkup())
	groupsRep := n.broadcast.Send(ctx, n.recipients.Groups(), text, groupMarkup(day))

	n.broadcast.NotifyOperator(ctx, n.settings.OperatorID(),
		service.FormatReport("18:00: Ertangi jadval yuborildi", usersRep, groupsRep))
}

// armReminders replaces the pending reminder set with one countdown per
// distinct lesson time in today's schedule, each firing leadMinutes before
// the lesson. Instants already inside the lead window are skipped — there
// is no retroactive reminder. A malformed time token only loses its own
// lesson.
func (n *Notifier) armReminders(now time.Time) {
	n.queue = n.queue[:0]

	day := now.Weekday().String()
	if day == model.RestDay {
		return
	}

	cfg := n.settings.Current()
	text, ok := n.schedule.Day(cfg.CurrentVariant, day)
	if !ok {
		return
	}

	lead := time.Duration(cfg.ReminderLeadMinutes) * time.Minute
	for _, t := range format.ExtractTimes(text) {
		hour, minute, err := format.ParseClock(t)
		if err != nil {
			n.logger.Warn("Skipping malformed lesson time", zap.String("token", t), zap.Error(err))
			continue
		}
		fireAt := clock.At(now, hour, minute).Add(-lead)
		if !fireAt.After(now) {
			continue
		}
		heap.Push(&n.queue, reminder{fireAt: fireAt, lessonTime: t, day: day})
	}

	n.logger.Info("Reminders armed",
		zap.String("day", day),
		zap.Int("count", n.queue.Len()))
}

// fireDueReminders pops every countdown whose instant has arrived and
// broadcasts it to individual subscribers only. The subject is looked up
// at fire time, so an edit after arming shows the fresh subject and a
// removed lesson falls back to the generic wording.
func (n *Notifier) fireDueReminders(ctx context.Context) {
	now := n.clk.Now()

	for n.queue.Len() > 0 && !n.queue[0].fireAt.After(now) {
		item := heap.Pop(&n.queue).(reminder)

		dayText, _ := n.schedule.Day(n.settings.Variant(), item.day)
		subject := format.SubjectAt(dayText, item.lessonTime)
		text := format.ReminderText(item.lessonTime, subject)

		rep := n.broadcast.Send(ctx, n.recipients.Users(), text, n.userMarkup())
		n.logger.Info("Lesson reminder sent",
			zap.String("lesson_time", item.lessonTime),
			zap.Int("attempted", rep.Attempted),
			zap.Int("succeeded", rep.Succeeded))
	}
}

func (n *Notifier) userMarkup() service.MarkupFunc {
	return func(chatID int64) models.ReplyMarkup {
		return keyboard.Main(n.settings.IsAdmin(chatID))
	}
}

func groupMarkup(day string) service.MarkupFunc {
	markup := keyboard.GroupQuick(day)
	return func(int64) models.ReplyMarkup {
		return markup
	}
}
