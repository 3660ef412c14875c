package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type CourseGormRepository struct {
	db *gorm.DB
}

func NewCourseGormRepository(db *gorm.DB) *CourseGormRepository {
	return &CourseGormRepository{db: db}
}

func (r *CourseGormRepository) Transaction(
	ctx context.Context,
	fn func(tx course.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CourseGormRepository{db: tx})
	})
}

func (r *CourseGormRepository) GetCourse(
	ctx context.Context,
	courseID uint,
) (*models.TreatmentCourse, error) {

	var c models.TreatmentCourse
	err := r.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&c, courseID).Error
	if notFound(err) {
		return nil, course.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.SpaService, error) {
	return getService(ctx, r.db, serviceID)
}

func (r *CourseGormRepository) LockSession(
	ctx context.Context,
	courseID uint,
	sequence int,
) (*models.Session, error) {

	var s models.Session
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ? AND sequence = ?", courseID, sequence).
		First(&s).Error
	if notFound(err) {
		return nil, course.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CourseGormRepository) LockBookingsForClient(
	ctx context.Context,
	clientID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "client_id", clientID, date, true)
}

func (r *CourseGormRepository) LockBookingsForTherapist(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) ([]models.Appointment, error) {
	return listBookings(ctx, r.db, "therapist_id", therapistID, date, true)
}

func (r *CourseGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return createAppointment(ctx, r.db, ap)
}

func (r *CourseGormRepository) LinkSessionAppointment(
	ctx context.Context,
	sessionID uint,
	appointmentID uint,
) error {
	return linkSessionAppointment(ctx, r.db, sessionID, appointmentID)
}

// Compile-time check
var _ course.Repository = (*CourseGormRepository)(nil)
