package course

import (
	"context"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type Repository interface {
	GetCourse(ctx context.Context, courseID uint) (*models.TreatmentCourse, error)

	GetService(ctx context.Context, serviceID uint) (*models.SpaService, error)

	// LockSession loads one session of a course with a row lock.
	LockSession(ctx context.Context, courseID uint, sequence int) (*models.Session, error)

	LockBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error)
	LockBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	LinkSessionAppointment(ctx context.Context, sessionID, appointmentID uint) error

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
