package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Action
	}{
		{name: "noop", data: "nav:noop", want: Noop{}},
		{
			name: "day navigation",
			data: "nav:Tuesday:tepa",
			want: DayNav{Day: "Tuesday", Variant: model.VariantUpper},
		},
		{
			name: "day navigation lower week",
			data: "nav:Saturday:pastgi",
			want: DayNav{Day: "Saturday", Variant: model.VariantLower},
		},
		{
			name: "weekly view",
			data: "nav:weekly:pastgi",
			want: WeeklyView{Variant: model.VariantLower},
		},
		{
			name: "group today",
			data: "grp_bugun:Monday",
			want: GroupToday{Day: "Monday"},
		},
		{
			name: "group tomorrow",
			data: "grp_ertaga:Friday",
			want: GroupTomorrow{Day: "Friday"},
		},
		{
			name: "bad variant",
			data: "nav:Tuesday:mystery",
			want: Unknown{Data: "nav:Tuesday:mystery"},
		},
		{
			name: "nav without variant",
			data: "nav:Tuesday",
			want: Unknown{Data: "nav:Tuesday"},
		},
		{
			name: "empty group day",
			data: "grp_bugun:",
			want: Unknown{Data: "grp_bugun:"},
		},
		{
			name: "foreign payload",
			data: "book_lesson:42",
			want: Unknown{Data: "book_lesson:42"},
		},
		{name: "empty", data: "", want: Unknown{Data: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.data))
		})
	}
}

func TestParseRoundTripsKeyboardPayloads(t *testing.T) {
	// Every payload the inline keyboards emit must decode to a concrete
	// action, never Unknown.
	for _, day := range append(append([]string(nil), model.Weekdays...), model.RestDay) {
		for _, v := range []model.Variant{model.VariantUpper, model.VariantLower} {
			data := "nav:" + day + ":" + string(v)
			act, ok := Parse(data).(DayNav)
			assert.True(t, ok, data)
			assert.Equal(t, DayNav{Day: day, Variant: v}, act)
		}
		assert.Equal(t, GroupToday{Day: day}, Parse("grp_bugun:"+day))
		assert.Equal(t, GroupTomorrow{Day: day}, Parse("grp_ertaga:"+day))
	}
}
