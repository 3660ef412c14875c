package promotion

import (
	"context"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type Repository interface {
	// FindPromotionByCode returns nil, nil when no promotion has the code.
	FindPromotionByCode(ctx context.Context, code string) (*models.Promotion, error)

	// ListRedemptions returns the user's redemptions with their promotion loaded.
	ListRedemptions(ctx context.Context, userID uint) ([]models.Redemption, error)

	ListPriorAppointments(ctx context.Context, clientID uint, before time.Time) ([]models.Appointment, error)
}
