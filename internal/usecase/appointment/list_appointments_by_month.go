package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/dto"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

// ListAppointmentsByMonth groups a therapist's month into day schedules.
// Days without appointments are left out.
type ListAppointmentsByMonth struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointmentsByMonth(repo domain.Repository, loc *time.Location) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo, loc: loc}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	therapistID uint,
	year int,
	month int,
) ([]dto.DayScheduleDTO, error) {

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, therapistID, first, first.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.Appointment)
	for _, ap := range apps {
		key := timezone.DateKey(ap.Date)
		byDay[key] = append(byDay[key], ap)
	}

	days := make([]string, 0, len(byDay))
	for key := range byDay {
		days = append(days, key)
	}
	sort.Strings(days)

	out := make([]dto.DayScheduleDTO, 0, len(days))
	for _, key := range days {
		out = append(out, dto.NewDaySchedule(key, sortByStart(byDay[key])))
	}
	return out, nil
}
