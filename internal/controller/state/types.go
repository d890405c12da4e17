package state

import "github.com/sardorbek-uz/raspisanie-bot/internal/model"

// Step is the pending input an admin dialog is waiting for.
type Step string

const (
	StepNone Step = ""

	StepAwaitingWeekChoice    Step = "awaiting_week_choice"
	StepAwaitingDayChoice     Step = "awaiting_day_choice"
	StepAwaitingScheduleText  Step = "awaiting_schedule_text"
	StepAwaitingAdminID       Step = "awaiting_admin_id"
	StepAwaitingBroadcastText Step = "awaiting_broadcast_text"
)

// Op identifies which admin flow owns the pending step, since edit, add
// and delete share the week and day choice screens.
type Op string

const (
	OpEdit   Op = "edit"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
)

// Dialog is the per-admin conversation state: the step being waited on
// plus the choices collected so far.
type Dialog struct {
	Step    Step
	Op      Op
	Variant model.Variant
	Day     string
}
