package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type AppointmentListDTO struct {
	ID          uint            `json:"id"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	DurationMin int             `json:"duration_min"`
	Status      string          `json:"status"`
	ClientName  string          `json:"client_name"`
	ServiceName string          `json:"service_name"`
	Total       decimal.Decimal `json:"total"`
	GroupID     *string         `json:"group_id,omitempty"`
	SessionID   *uint           `json:"session_id,omitempty"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			Date:        timezone.DateKey(ap.Date),
			Time:        ap.Time,
			DurationMin: ap.DurationMin,
			Status:      ap.Status,
			ClientName:  ap.Client.Name,
			ServiceName: ap.Service.Name,
			Total:       ap.Price.Sub(ap.Discount),
			GroupID:     ap.GroupID,
			SessionID:   ap.SessionID,
		})
	}
	return out
}

// DayScheduleDTO is a therapist's day: the appointments in start order plus totals
// over the ones that are not cancelled.
type DayScheduleDTO struct {
	Date          string               `json:"date"`
	Appointments  []AppointmentListDTO `json:"appointments"`
	Booked        int                  `json:"booked"`
	BookedMinutes int                  `json:"booked_minutes"`
	Revenue       decimal.Decimal      `json:"revenue"`
}

func NewDaySchedule(date string, apps []models.Appointment) DayScheduleDTO {
	out := DayScheduleDTO{
		Date:         date,
		Appointments: NewAppointmentList(apps),
		Revenue:      decimal.Zero,
	}
	for _, ap := range apps {
		if ap.Status == string(appointment.StatusCancelled) {
			continue
		}
		out.Booked++
		out.BookedMinutes += ap.DurationMin
		out.Revenue = out.Revenue.Add(ap.Price.Sub(ap.Discount))
	}
	return out
}
