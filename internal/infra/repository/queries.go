package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

// Queries shared by the gorm repositories. Dates are bound as "YYYY-MM-DD" so
// Postgres compares them as date values, independent of the session time zone.

func listBookings(
	ctx context.Context,
	db *gorm.DB,
	column string,
	actorID uint,
	date time.Time,
	lock bool,
) ([]models.Appointment, error) {

	q := db.WithContext(ctx).
		Where(column+" = ? AND date = ? AND status <> ?",
			actorID,
			timezone.DateKey(date),
			string(domain.StatusCancelled),
		).
		Order("time ASC")

	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// createAppointment maps slot index violations to a PersistenceConflictError.
func createAppointment(ctx context.Context, db *gorm.DB, ap *models.Appointment) error {
	if err := db.WithContext(ctx).Create(ap).Error; err != nil {
		if httperr.IsSlotConstraint(err) {
			return &domain.PersistenceConflictError{Err: err}
		}
		return err
	}
	return nil
}

func linkSessionAppointment(ctx context.Context, db *gorm.DB, sessionID, appointmentID uint) error {
	if err := db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("appointment_id", appointmentID).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return &domain.PersistenceConflictError{Err: err}
		}
		return err
	}

	return db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("session_id", sessionID).Error
}

func getService(ctx context.Context, db *gorm.DB, id uint) (*models.SpaService, error) {
	var svc models.SpaService
	if err := db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
