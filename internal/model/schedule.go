package model

// Variant is one of the two alternating weekly schedule tables.
// The wire values match the documents written by earlier deployments.
type Variant string

const (
	VariantUpper Variant = "tepa"
	VariantLower Variant = "pastgi"
)

// Toggle flips between the upper and lower week.
func (v Variant) Toggle() Variant {
	if v == VariantUpper {
		return VariantLower
	}
	return VariantUpper
}

// Label returns the Uzbek display name of the variant.
func (v Variant) Label() string {
	if v == VariantLower {
		return "Pastgi hafta"
	}
	return "Tepa hafta"
}

func (v Variant) Valid() bool {
	return v == VariantUpper || v == VariantLower
}

// ParseVariant reads a wire value, reporting whether it names a known
// variant.
func ParseVariant(s string) (Variant, bool) {
	v := Variant(s)
	return v, v.Valid()
}

// DayTable maps an English weekday name to the day's free-text lesson
// listing (lines of "HH:MM - subject" or loose annotations).
type DayTable map[string]string

// WeekTable holds both schedule variants.
type WeekTable map[Variant]DayTable

// Weekdays lists the school days in display order. Sunday carries no
// lessons and never appears in a DayTable.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// RestDay is the weekday with no lessons.
const RestDay = "Sunday"

// DefaultWeekTable seeds a fresh installation with the standard two-week
// class plan.
func DefaultWeekTable() WeekTable {
	return WeekTable{
		VariantUpper: DayTable{
			"Monday":    "08:00 - Matematika\n09:00 - Fizika\n10:30 - Ingliz tili",
			"Tuesday":   "08:00 - Kimyo\n09:00 - Biologiya\n10:30 - Tarix",
			"Wednesday": "08:00 - Tarix\n09:00 - Adabiyot\n10:30 - Informatika",
			"Thursday":  "08:00 - Fizika\n09:00 - Matematika\n10:30 - Ingliz tili",
			"Friday":    "08:00 - Algebra\n09:00 - Geometriya\n10:30 - Musiqa",
			"Saturday":  "09:00 - Jismoniy tarbiya\n10:00 - Sinf soati",
		},
		VariantLower: DayTable{
			"Monday":    "08:00 - Kimyo\n09:00 - Ingliz tili\n10:30 - Matematika",
			"Tuesday":   "08:00 - Biologiya\n09:00 - Algebra\n10:30 - Tarix",
			"Wednesday": "08:00 - Fizika\n09:00 - Matematika\n10:30 - Adabiyot",
			"Thursday":  "08:00 - Tarix\n09:00 - Kimyo\n10:30 - Informatika",
			"Friday":    "08:00 - Adabiyot\n09:00 - Informatika\n10:30 - Musiqa",
			"Saturday":  "09:00 - Sport\n10:00 - Sinf soati",
		},
	}
}

// Clone makes a deep copy so callers can render without holding locks.
func (w WeekTable) Clone() WeekTable {
	out := make(WeekTable, len(w))
	for variant, days := range w {
		dt := make(DayTable, len(days))
		for day, text := range days {
			dt[day] = text
		}
		out[variant] = dt
	}
	return out
}
