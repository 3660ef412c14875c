package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "Asia/Ho_Chi_Minh"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock is the source of "now" for use cases, replaced by a fixed clock in tests.
type Clock interface {
	Now() time.Time
}

type LocationClock struct {
	Loc *time.Location
}

func (c LocationClock) Now() time.Time {
	return time.Now().In(c.Loc)
}

// ===============================
// Calendar helpers
// ===============================

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// DateKey identifies the calendar day of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// CivilDate is the storage form of a calendar day: midnight UTC of the same y-m-d.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At places a wall-clock minute on the calendar day of date, in loc.
func At(date time.Time, minutes int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}
