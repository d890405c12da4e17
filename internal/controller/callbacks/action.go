package callbacks

import (
	"strings"

	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

// Callback data patterns carried by inline keyboards. The payload is
// parsed once at the boundary into a typed Action so the handler can
// switch without re-splitting strings.
//
//	nav:noop
//	nav:weekly:<variant>
//	nav:<day>:<variant>
//	grp_bugun:<day>
//	grp_ertaga:<day>
const (
	PrefixNav     = "nav:"
	PrefixGroupAM = "grp_bugun:"
	PrefixGroupPM = "grp_ertaga:"
)

// Action is one decoded callback payload.
type Action interface{ isAction() }

// DayNav moves the inline day view to another weekday.
type DayNav struct {
	Day     string
	Variant model.Variant
}

// WeeklyView switches the inline message to the full-week rendering.
type WeeklyView struct {
	Variant model.Variant
}

// Noop is the current-day button, it only acknowledges the tap.
type Noop struct{}

// GroupToday asks for today's schedule from a group quick button.
type GroupToday struct {
	Day string
}

// GroupTomorrow asks for tomorrow's schedule from a group quick button.
type GroupTomorrow struct {
	Day string
}

// Unknown is any payload we did not produce ourselves.
type Unknown struct {
	Data string
}

func (DayNav) isAction()        {}
func (WeeklyView) isAction()    {}
func (Noop) isAction()          {}
func (GroupToday) isAction()    {}
func (GroupTomorrow) isAction() {}
func (Unknown) isAction()       {}

// Parse decodes raw callback data into an Action.
func Parse(data string) Action {
	switch {
	case strings.HasPrefix(data, PrefixNav):
		return parseNav(strings.TrimPrefix(data, PrefixNav))
	case strings.HasPrefix(data, PrefixGroupAM):
		day := strings.TrimPrefix(data, PrefixGroupAM)
		if day == "" {
			return Unknown{Data: data}
		}
		return GroupToday{Day: day}
	case strings.HasPrefix(data, PrefixGroupPM):
		day := strings.TrimPrefix(data, PrefixGroupPM)
		if day == "" {
			return Unknown{Data: data}
		}
		return GroupTomorrow{Day: day}
	}
	return Unknown{Data: data}
}

func parseNav(rest string) Action {
	if rest == "noop" {
		return Noop{}
	}
	head, tail, ok := strings.Cut(rest, ":")
	if !ok {
		return Unknown{Data: PrefixNav + rest}
	}
	variant, ok := model.ParseVariant(tail)
	if !ok {
		return Unknown{Data: PrefixNav + rest}
	}
	if head == "weekly" {
		return WeeklyView{Variant: variant}
	}
	return DayNav{Day: head, Variant: variant}
}
