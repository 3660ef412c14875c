package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type Lookup struct {
	Code         string
	User         models.User
	Cart         Cart
	BookingStart time.Time
	Today        time.Time
}

// FindAndEvaluate fetches the promotion by code together with the user's history and
// evaluates it. An unknown code yields a ReasonNotFound result and a nil promotion.
func FindAndEvaluate(ctx context.Context, repo Repository, in Lookup) (*models.Promotion, Result, error) {
	code := strings.TrimSpace(in.Code)

	p, err := repo.FindPromotionByCode(ctx, code)
	if err != nil {
		return nil, Result{}, err
	}
	if p == nil {
		return nil, reject(ReasonNotFound), nil
	}

	redemptions, err := repo.ListRedemptions(ctx, in.User.ID)
	if err != nil {
		return nil, Result{}, err
	}

	var prior []models.Appointment
	audience, _ := ParseAudience(p.Audience)
	if audience.Kind == AudienceNewClients {
		prior, err = repo.ListPriorAppointments(ctx, in.User.ID, in.BookingStart)
		if err != nil {
			return nil, Result{}, err
		}
	}

	res := Evaluate(Input{
		User:              in.User,
		Cart:              in.Cart,
		Promotion:         *p,
		Redemptions:       redemptions,
		PriorAppointments: prior,
		BookingStart:      in.BookingStart,
		Today:             in.Today,
	})

	return p, res, nil
}
