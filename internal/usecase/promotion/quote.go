package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/promotion"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type Repository interface {
	domain.Repository
	GetServices(ctx context.Context, ids []uint) ([]models.SpaService, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type QuoteInput struct {
	UserID     uint
	Code       string
	ServiceIDs []uint
	Date       string
	Time       string
}

type Quote struct {
	Code       string            `json:"code"`
	Applicable bool              `json:"applicable"`
	Reason     string            `json:"reason,omitempty"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Discount   decimal.Decimal   `json:"discount"`
	Total      decimal.Decimal   `json:"total"`
	PerService []decimal.Decimal `json:"per_service"`
}

// QuotePromotion evaluates a code against a cart without writing anything.
type QuotePromotion struct {
	repo    Repository
	metrics *metrics.Metrics
	clock   timezone.Clock
	loc     *time.Location
}

func NewQuotePromotion(
	repo Repository,
	m *metrics.Metrics,
	clock timezone.Clock,
	loc *time.Location,
) *QuotePromotion {
	return &QuotePromotion{
		repo:    repo,
		metrics: m,
		clock:   clock,
		loc:     loc,
	}
}

func (uc *QuotePromotion) Execute(ctx context.Context, in QuoteInput) (*Quote, error) {
	if strings.TrimSpace(in.Code) == "" || len(in.ServiceIDs) == 0 {
		return nil, &appointment.ValidationError{Fields: []string{"code", "services"}}
	}

	user, err := uc.repo.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperr.ErrBusiness("user_not_found")
	}

	services, err := uc.repo.GetServices(ctx, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.SpaService, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	var cart domain.Cart
	for _, id := range in.ServiceIDs {
		s, ok := byID[id]
		if !ok {
			return nil, &appointment.ValidationError{Fields: []string{"services"}, Detail: "unknown service"}
		}
		cart.Items = append(cart.Items, domain.CartItem{ServiceID: s.ID, Price: s.Price})
	}

	now := uc.clock.Now().In(uc.loc)
	bookingStart := now
	if in.Date != "" && in.Time != "" {
		day, err := timezone.ParseDate(in.Date, uc.loc)
		if err != nil {
			return nil, &appointment.ValidationError{Fields: []string{"date"}, Detail: "invalid date"}
		}
		minutes, err := timezone.ParseClock(in.Time)
		if err != nil {
			return nil, &appointment.ValidationError{Fields: []string{"time"}, Detail: "invalid time"}
		}
		bookingStart = timezone.At(day, minutes, uc.loc)
	}

	_, res, err := domain.FindAndEvaluate(ctx, uc.repo, domain.Lookup{
		Code:         in.Code,
		User:         *user,
		Cart:         cart,
		BookingStart: bookingStart,
		Today:        now,
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.PromotionEvaluated(string(res.Reason))

	subtotal := cart.Subtotal()
	return &Quote{
		Code:       strings.TrimSpace(in.Code),
		Applicable: res.Applicable,
		Reason:     string(res.Reason),
		Subtotal:   subtotal,
		Discount:   res.Discount,
		Total:      subtotal.Sub(res.Discount),
		PerService: res.Allocate(cart),
	}, nil
}
