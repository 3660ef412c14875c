package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/domain/promotion"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// Repository is everything the booking flow reads and writes. Transaction hands fn a
// Repository bound to one database transaction; returning an error rolls it back.
type Repository interface {
	promotion.Repository

	// -------- Catalogue --------
	GetServices(ctx context.Context, ids []uint) ([]models.SpaService, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)

	// -------- Availability --------
	ListBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error)
	ListBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error)

	// Lock variants take row locks and are meant for use inside Transaction.
	LockBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error)
	LockBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error)

	// -------- Sinks --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	CreateTreatmentCourse(ctx context.Context, c *models.TreatmentCourse) error
	CreateSessions(ctx context.Context, courseID uint, sessions []models.Session) ([]models.Session, error)
	LinkSessionAppointment(ctx context.Context, sessionID, appointmentID uint) error

	CreateRedemption(ctx context.Context, r *models.Redemption) error
	// ConsumeRedemption attaches appointmentID to a reserved redemption; false if it was taken.
	ConsumeRedemption(ctx context.Context, redemptionID, appointmentID uint) (bool, error)
	// DecrementStock takes one unit of a stocked promotion; false if none is left.
	DecrementStock(ctx context.Context, promotionID uint) (bool, error)

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
