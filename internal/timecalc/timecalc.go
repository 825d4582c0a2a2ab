package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout is the layout of a day-key, e.g. "2024-01-10".
const DayKeyLayout = time.DateOnly

// QuarterBase is the rounding step for productive time, in hours.
const QuarterBase = 0.25

// RoundTo rounds x to the nearest multiple of base. Ties go to the even
// multiple, so 0.125 rounds to 0 and 0.375 rounds to 0.5.
func RoundTo(x, base float64) float64 {
	return base * math.RoundToEven(x/base)
}

// QuarterRound rounds hours to the nearest quarter hour.
func QuarterRound(hours float64) float64 {
	return RoundTo(hours, QuarterBase)
}

// Elapsed returns the time between from and to in whole seconds, folded
// into a single day. A negative difference wraps around midnight, so a
// check-out that reads earlier than its check-in counts as an overnight
// shift.
func Elapsed(from, to time.Time) time.Duration {
	const day = 24 * time.Hour
	d := to.Sub(from) % day
	if d < 0 {
		d += day
	}
	return d.Truncate(time.Second)
}

// ElapsedHours is Elapsed in hours.
func ElapsedHours(from, to time.Time) float64 {
	return Elapsed(from, to).Hours()
}

// DayKey formats t as a day-key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a day-key into local midnight of that date.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, time.Local)
}

// DayKeys returns n day-keys starting with the day of now and going back
// one calendar day at a time.
func DayKeys(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	keys := make([]string, 0, n)
	start := StartOfDay(now)
	for i := 0; i < n; i++ {
		keys = append(keys, DayKey(start.AddDate(0, 0, -i)))
	}
	return keys
}

// AtClock combines the date of day with a wall-clock time given as
// "HH:MM" or "HH:MM:SS".
func AtClock(day time.Time, clock string) (time.Time, error) {
	var (
		c   time.Time
		err error
	)
	if strings.Count(clock, ":") == 2 {
		c, err = time.Parse(time.TimeOnly, clock)
	} else {
		c, err = time.Parse("15:04", clock)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		c.Hour(), c.Minute(), c.Second(), 0, day.Location()), nil
}

// FormatHours formats a number of hours for reports, keeping at least one
// decimal: 8 -> "8.0", 7.75 -> "7.75".
func FormatHours(h float64) string {
	if h == math.Trunc(h) {
		return strconv.FormatFloat(h, 'f', 1, 64)
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
