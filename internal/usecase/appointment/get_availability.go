package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	clock timezone.Clock

	// spa opening hours, used when the therapist has no working hours for the day
	defaultWindow domain.Window
	step          int
}

func NewGetAvailability(
	repo domain.Repository,
	clock timezone.Clock,
	defaultWindow domain.Window,
	step int,
) *GetAvailability {
	if step <= 0 {
		step = 15
	}
	return &GetAvailability{
		repo:          repo,
		clock:         clock,
		defaultWindow: defaultWindow,
		step:          step,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !service.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	window := uc.defaultWindow
	var existing []models.Appointment

	if in.TherapistID != 0 {
		wh, err := uc.repo.GetWorkingHours(ctx, in.TherapistID, int(in.Date.Weekday()))
		if err != nil {
			return nil, err
		}
		if wh != nil {
			w, ok := domain.WindowFromWorkingHours(wh)
			if !ok {
				return []domain.TimeSlot{}, nil
			}
			window = w
		}

		existing, err = uc.repo.ListBookingsForTherapist(ctx, in.TherapistID, in.Date)
		if err != nil {
			return nil, err
		}
	}

	return domain.AvailableStarts(
		in.Date,
		window,
		uc.step,
		service.DurationMin,
		existing,
		uc.clock.Now(),
	), nil
}
