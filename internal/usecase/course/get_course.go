package course

import (
	"context"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type Actor struct {
	UserID uint
	Role   string
}

// canSee: staff see every course, therapists their own, clients theirs.
func canSee(actor Actor, c *models.TreatmentCourse) bool {
	switch actor.Role {
	case models.RoleStaff:
		return true
	case models.RoleTherapist:
		return c.TherapistID != nil && *c.TherapistID == actor.UserID
	default:
		return c.ClientID == actor.UserID
	}
}

type GetCourse struct {
	repo domain.Repository
}

func NewGetCourse(repo domain.Repository) *GetCourse {
	return &GetCourse{repo: repo}
}

func (uc *GetCourse) Execute(
	ctx context.Context,
	actor Actor,
	courseID uint,
) (*models.TreatmentCourse, error) {

	c, err := uc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, c) {
		return nil, domain.ErrCourseNotFound
	}
	return c, nil
}
