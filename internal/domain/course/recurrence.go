package course

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

const MaxSessions = 100

// Spec is the recurrence part of a treatment course.
type Spec struct {
	TotalSessions   int
	SessionsPerWeek int
	WeekDays        []int // 0..6, Sunday = 0; empty means fixed spacing
	SessionTime     string
	StartDate       time.Time
	ExpiryDate      time.Time // zero means no expiry
}

type PlannedSession struct {
	Sequence int
	Date     time.Time
	Time     string
}

type Plan struct {
	Sessions []PlannedSession

	// Sessions dated after the expiry are kept; they are only counted here.
	PastExpiry int
}

func (p Plan) ExpiryWarning() bool {
	return p.PastExpiry > 0
}

// BoundsWarning describes sessions that fall after the course expiry, or nil.
func (p Plan) BoundsWarning(expiry time.Time) *RecurrenceBoundsError {
	if !p.ExpiryWarning() {
		return nil
	}
	return &RecurrenceBoundsError{ExpiryDate: expiry, PastExpiry: p.PastExpiry}
}

// GenerateSessions expands spec into its full, ordered list of sessions.
func GenerateSessions(spec Spec) (Plan, error) {
	if err := validate(spec); err != nil {
		return Plan{}, err
	}

	var dates []time.Time
	if len(spec.WeekDays) > 0 {
		dates = byWeekDays(spec.StartDate, normalizeWeekDays(spec.WeekDays), spec.TotalSessions)
	} else {
		dates = byInterval(spec.StartDate, spec.SessionsPerWeek, spec.TotalSessions)
	}

	plan := Plan{Sessions: make([]PlannedSession, 0, len(dates))}
	expiryKey := ""
	if !spec.ExpiryDate.IsZero() {
		expiryKey = timezone.DateKey(spec.ExpiryDate)
	}

	for i, d := range dates {
		plan.Sessions = append(plan.Sessions, PlannedSession{
			Sequence: i + 1,
			Date:     d,
			Time:     spec.SessionTime,
		})
		if expiryKey != "" && timezone.DateKey(d) > expiryKey {
			plan.PastExpiry++
		}
	}

	return plan, nil
}

func validate(spec Spec) error {
	if spec.TotalSessions <= 0 || spec.TotalSessions > MaxSessions {
		return fmt.Errorf("%w: total sessions must be between 1 and %d", ErrInvalidSpec, MaxSessions)
	}
	if spec.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidSpec)
	}
	if _, err := timezone.ParseClock(spec.SessionTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	for _, d := range spec.WeekDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSpec, d)
		}
	}
	if len(spec.WeekDays) == 0 && spec.SessionsPerWeek <= 0 {
		return fmt.Errorf("%w: sessions per week must be positive", ErrInvalidSpec)
	}
	return nil
}

func normalizeWeekDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// byWeekDays walks week by week from the week containing start.
func byWeekDays(start time.Time, days []int, total int) []time.Time {
	weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	startKey := timezone.DateKey(start)

	out := make([]time.Time, 0, total)
	for week := 0; len(out) < total; week++ {
		for _, wd := range days {
			d := weekStart.AddDate(0, 0, week*7+wd)
			if timezone.DateKey(d) < startKey {
				continue
			}
			out = append(out, d)
			if len(out) == total {
				break
			}
		}
	}
	return out
}

func byInterval(start time.Time, perWeek, total int) []time.Time {
	interval := 7 / perWeek
	if interval < 1 {
		interval = 1
	}

	out := make([]time.Time, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, start.AddDate(0, 0, i*interval))
	}
	return out
}

// ===============================
// Weekday pattern storage
// ===============================

func FormatWeekDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range normalizeWeekDays(days) {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func ParseWeekDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: bad weekday %q", ErrInvalidSpec, p)
		}
		out = append(out, d)
	}
	return normalizeWeekDays(out), nil
}

// ToSessions converts a plan into storable sessions for courseID.
func ToSessions(courseID uint, therapistID *uint, plan Plan) []models.Session {
	out := make([]models.Session, 0, len(plan.Sessions))
	for _, s := range plan.Sessions {
		out = append(out, models.Session{
			CourseID:    courseID,
			Sequence:    s.Sequence,
			Date:        timezone.CivilDate(s.Date),
			Time:        s.Time,
			Status:      models.SessionScheduled,
			TherapistID: therapistID,
		})
	}
	return out
}
