package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Catalogue
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.SpaService, error) {
	return getService(ctx, r.db, serviceID)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).First(&ap, appointmentID).Error
	if notFound(err) {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit("Service", "Client", "Therapist").
		Save(ap).Error
}

func (r *AppointmentGormRepository) UpdateSessionStatus(
	ctx context.Context,
	sessionID uint,
	status string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("status", status).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	therapistID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("therapist_id = ? AND weekday = ?", therapistID, weekday).
		First(&wh).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListBookingsForTherapist(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "therapist_id", therapistID, date, false)
}

// ListAppointmentsForPeriod lists a therapist's appointments with date in [start, end).
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	therapistID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"therapist_id = ? AND date >= ? AND date < ?",
			therapistID,
			timezone.DateKey(start),
			timezone.DateKey(end),
		).
		Order("date ASC, time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
