package appointment

import (
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

// Window is an opening interval in minutes since midnight, with an optional break.
type Window struct {
	Open       int
	Close      int
	BreakStart int
	BreakEnd   int
}

func (w Window) HasBreak() bool {
	return w.BreakEnd > w.BreakStart
}

// WindowFromWorkingHours derives the day's window from a therapist's working hours.
// ok is false when the therapist does not work that day.
func WindowFromWorkingHours(wh *models.WorkingHours) (Window, bool) {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return Window{}, false
	}

	open, err := timezone.ParseClock(wh.StartTime)
	if err != nil {
		return Window{}, false
	}
	closeAt, err := timezone.ParseClock(wh.EndTime)
	if err != nil || closeAt <= open {
		return Window{}, false
	}

	w := Window{Open: open, Close: closeAt}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, err1 := timezone.ParseClock(wh.LunchStart)
		le, err2 := timezone.ParseClock(wh.LunchEnd)
		if err1 == nil && err2 == nil && le > ls {
			w.BreakStart, w.BreakEnd = ls, le
		}
	}

	return w, true
}

// Fits reports whether [start, start+duration) lies inside the window and clear of the break.
func (w Window) Fits(start, duration int) bool {
	end := start + duration
	if start < w.Open || end > w.Close {
		return false
	}
	if w.HasBreak() && start < w.BreakEnd && end > w.BreakStart {
		return false
	}
	return true
}
