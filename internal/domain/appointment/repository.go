package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type Repository interface {
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Catalogue --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.SpaService, error)

	// -------- Appointment (state change) --------

	// GetAppointment returns ErrAppointmentNotFound when no row has the id.
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateSessionStatus(
		ctx context.Context,
		sessionID uint,
		status string,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		therapistID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBookingsForTherapist(
		ctx context.Context,
		therapistID uint,
		date time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		therapistID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
