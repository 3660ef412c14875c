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

// ListAppointmentsByDate builds a therapist's schedule for one spa-local day.
type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	therapistID uint,
	date time.Time,
	includeCancelled bool,
) (dto.DayScheduleDTO, error) {

	day := timezone.At(date, 0, date.Location())

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, therapistID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return dto.DayScheduleDTO{}, err
	}

	if !includeCancelled {
		kept := apps[:0]
		for _, ap := range apps {
			if ap.Status != string(domain.StatusCancelled) {
				kept = append(kept, ap)
			}
		}
		apps = kept
	}

	return dto.NewDaySchedule(timezone.DateKey(day), sortByStart(apps)), nil
}

func sortByStart(apps []models.Appointment) []models.Appointment {
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Time < apps[j].Time })
	return apps
}
