package clock

import "time"

// Clock supplies the current wall-clock time in the bot's fixed zone.
// The notifier and handlers take it as a dependency so tests can freeze time.
type Clock interface {
	Now() time.Time
}

const zoneName = "Asia/Tashkent"

// Zone is the single time zone the bot operates in.
var Zone = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		// No tzdata on the host: Tashkent has no DST, a fixed offset is exact.
		return time.FixedZone("UZT", 5*60*60)
	}
	return loc
}

// Tashkent is the production clock.
type Tashkent struct{}

func (Tashkent) Now() time.Time {
	return time.Now().In(Zone)
}

// Until returns the duration from now until the next occurrence of hh:mm,
// strictly after now: if today's instant has already passed (or is exactly
// now), the target rolls over to tomorrow.
func Until(now time.Time, hour, minute int) time.Duration {
	target := At(now, hour, minute)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}

// At returns today's instant at hh:mm in now's location.
func At(now time.Time, hour, minute int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}
