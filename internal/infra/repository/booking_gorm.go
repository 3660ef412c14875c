package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx booking.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Catalogue
// --------------------------------------------------

func (r *BookingGormRepository) GetServices(
	ctx context.Context,
	ids []uint,
) ([]models.SpaService, error) {

	var services []models.SpaService
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForClient(
	ctx context.Context,
	clientID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "client_id", clientID, date, false)
}

func (r *BookingGormRepository) ListBookingsForTherapist(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "therapist_id", therapistID, date, false)
}

func (r *BookingGormRepository) LockBookingsForClient(
	ctx context.Context,
	clientID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "client_id", clientID, date, true)
}

func (r *BookingGormRepository) LockBookingsForTherapist(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "therapist_id", therapistID, date, true)
}

// --------------------------------------------------
// Sinks
// --------------------------------------------------

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return createAppointment(ctx, r.db, ap)
}

func (r *BookingGormRepository) CreateTreatmentCourse(
	ctx context.Context,
	c *models.TreatmentCourse,
) error {
	return r.db.WithContext(ctx).Omit("Sessions").Create(c).Error
}

func (r *BookingGormRepository) CreateSessions(
	ctx context.Context,
	courseID uint,
	sessions []models.Session,
) ([]models.Session, error) {

	for i := range sessions {
		sessions[i].CourseID = courseID
	}

	if err := r.db.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *BookingGormRepository) LinkSessionAppointment(
	ctx context.Context,
	sessionID uint,
	appointmentID uint,
) error {
	return linkSessionAppointment(ctx, r.db, sessionID, appointmentID)
}

// --------------------------------------------------
// Promotions
// --------------------------------------------------

func (r *BookingGormRepository) FindPromotionByCode(
	ctx context.Context,
	code string,
) (*models.Promotion, error) {

	var p models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ApplicableServices").
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&p).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BookingGormRepository) ListRedemptions(
	ctx context.Context,
	userID uint,
) ([]models.Redemption, error) {

	var out []models.Redemption
	if err := r.db.WithContext(ctx).
		Preload("Promotion").
		Where("user_id = ?", userID).
		Order("redeemed_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListPriorAppointments returns non-cancelled appointments dated on or before the
// booking day; the evaluator compares exact start times.
func (r *BookingGormRepository) ListPriorAppointments(
	ctx context.Context,
	clientID uint,
	before time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND date <= ? AND status <> ?",
			clientID,
			timezone.DateKey(before),
			string(domain.StatusCancelled),
		).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) CreateRedemption(
	ctx context.Context,
	red *models.Redemption,
) error {
	return r.db.WithContext(ctx).Omit("Promotion").Create(red).Error
}

func (r *BookingGormRepository) ConsumeRedemption(
	ctx context.Context,
	redemptionID uint,
	appointmentID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Redemption{}).
		Where("id = ? AND appointment_id IS NULL", redemptionID).
		Update("appointment_id", appointmentID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) DecrementStock(
	ctx context.Context,
	promotionID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ? AND stock > 0", promotionID).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
