package appointment

import (
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	TherapistID uint
	ServiceID   uint
	Date        time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slot is a candidate start: a calendar day plus minutes since midnight.
// Date carries the spa location; it is used to compare against the wall clock.
type Slot struct {
	Date  time.Time
	Start int
}

func (s Slot) StartTime() time.Time {
	return timezone.At(s.Date, s.Start, s.Date.Location())
}

type Reason string

const (
	ReasonOK              Reason = ""
	ReasonInvalidDuration Reason = "invalid_duration"
	ReasonInPast          Reason = "slot_in_past"
	ReasonOverlap         Reason = "overlap"
	ReasonDoesNotFit      Reason = "does_not_fit_before"
)

// Verdict is the outcome of checking one candidate slot.
type Verdict struct {
	Reason   Reason
	Conflict *models.Appointment
}

func (v Verdict) OK() bool {
	return v.Reason == ReasonOK
}

// IsAvailable reports whether a booking of durationMinutes starting at candidate can be
// added next to existing, which are the bookings of a single actor (client or therapist).
func IsAvailable(candidate Slot, durationMinutes int, existing []models.Appointment, now time.Time) bool {
	return Check(candidate, durationMinutes, existing, now).OK()
}

// Check is IsAvailable with the reason and the first offending booking.
//
// Back-to-back after an existing booking needs no gap. A candidate starting before an
// existing booking b must satisfy start <= b.start - duration, so the new service ends by
// the time b begins; otherwise it does not fit before b. A candidate starting inside b
// overlaps it. A booking whose time cannot be read blocks the candidate.
func Check(candidate Slot, durationMinutes int, existing []models.Appointment, now time.Time) Verdict {
	if durationMinutes <= 0 {
		return Verdict{Reason: ReasonInvalidDuration}
	}

	if candidate.StartTime().Before(now) {
		return Verdict{Reason: ReasonInPast}
	}

	day := timezone.DateKey(candidate.Date)
	start := candidate.Start

	for i := range existing {
		b := &existing[i]

		if Status(b.Status) == StatusCancelled {
			continue
		}
		if timezone.DateKey(b.Date) != day {
			continue
		}

		bStart, err := timezone.ParseClock(b.Time)
		if err != nil {
			return Verdict{Reason: ReasonOverlap, Conflict: b}
		}

		if start >= bStart+b.DurationMin {
			continue
		}

		if start < bStart {
			if start <= bStart-durationMinutes {
				continue
			}
			return Verdict{Reason: ReasonDoesNotFit, Conflict: b}
		}

		return Verdict{Reason: ReasonOverlap, Conflict: b}
	}

	return Verdict{}
}

// AvailableStarts lists candidate starts inside the window, every step minutes, that pass Check.
func AvailableStarts(
	day time.Time,
	window Window,
	step int,
	durationMinutes int,
	existing []models.Appointment,
	now time.Time,
) []TimeSlot {
	if step <= 0 || durationMinutes <= 0 {
		return nil
	}

	slots := []TimeSlot{}
	for cur := window.Open; cur+durationMinutes <= window.Close; cur += step {
		if !window.Fits(cur, durationMinutes) {
			continue
		}
		if !IsAvailable(Slot{Date: day, Start: cur}, durationMinutes, existing, now) {
			continue
		}
		slots = append(slots, TimeSlot{
			Start: timezone.FormatClock(cur),
			End:   timezone.FormatClock(cur + durationMinutes),
		})
	}

	return slots
}
