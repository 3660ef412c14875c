package promotion

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

var hundred = decimal.NewFromInt(100)

type CartItem struct {
	ServiceID uint
	Price     decimal.Decimal
}

type Cart struct {
	Items []CartItem
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	return total
}

type Input struct {
	User      models.User
	Cart      Cart
	Promotion models.Promotion

	// Redemptions are all of the user's redemptions, with Promotion loaded.
	Redemptions []models.Redemption

	// PriorAppointments are the user's appointments; only non-cancelled ones
	// starting before BookingStart count.
	PriorAppointments []models.Appointment
	BookingStart      time.Time

	Today time.Time
}

type Result struct {
	Applicable         bool
	Reason             Reason
	Discount           decimal.Decimal
	ApplicableSubtotal decimal.Decimal

	// applies[i] is true when Cart.Items[i] is part of the discounted subset.
	applies []bool

	// ReservedRedemptionID is an unused redemption that this booking consumes.
	ReservedRedemptionID *uint
}

func reject(r Reason) Result {
	return Result{Reason: r, Discount: decimal.Zero, ApplicableSubtotal: decimal.Zero}
}

// Err returns the IneligibleError for a rejected result, or nil.
func (r Result) Err(code string) error {
	if r.Applicable {
		return nil
	}
	return &IneligibleError{Code: code, Reason: r.Reason}
}

// Evaluate runs the eligibility checks in a fixed order and stops at the first failure.
func Evaluate(in Input) Result {
	p := in.Promotion
	today := timezone.DateKey(in.Today)

	if !p.IsActive {
		return reject(ReasonInactive)
	}

	if today > timezone.DateKey(p.ExpiryDate) {
		return reject(ReasonExpired)
	}

	if p.IsPublic && p.Stock != nil && *p.Stock <= 0 {
		return reject(ReasonOutOfStock)
	}

	if in.Cart.Subtotal().LessThan(p.MinOrderValue) {
		return reject(ReasonMinOrderNotMet)
	}

	applies, subset := applicableSubset(in.Cart, p.ApplicableServiceIDs())
	if subset == 0 {
		return reject(ReasonServiceNotApplicable)
	}

	audience, err := ParseAudience(p.Audience)
	if err != nil {
		return reject(ReasonUnknownAudience)
	}

	reserved, reason := checkAudience(in, audience)
	if reason != ReasonNone {
		return reject(reason)
	}

	applicable := decimal.Zero
	for i, it := range in.Cart.Items {
		if applies[i] {
			applicable = applicable.Add(it.Price)
		}
	}

	return Result{
		Applicable:           true,
		Discount:             computeDiscount(p, applicable),
		ApplicableSubtotal:   applicable,
		applies:              applies,
		ReservedRedemptionID: reserved,
	}
}

func applicableSubset(cart Cart, serviceIDs []uint) ([]bool, int) {
	applies := make([]bool, len(cart.Items))

	if len(serviceIDs) == 0 {
		for i := range applies {
			applies[i] = true
		}
		return applies, len(applies)
	}

	allowed := make(map[uint]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		allowed[id] = true
	}

	n := 0
	for i, it := range cart.Items {
		if allowed[it.ServiceID] {
			applies[i] = true
			n++
		}
	}
	return applies, n
}

func checkAudience(in Input, audience Audience) (*uint, Reason) {
	switch audience.Kind {
	case AudienceBirthday:
		year := in.Today.Year()
		for _, r := range in.Redemptions {
			a, err := ParseAudience(r.Promotion.Audience)
			if err != nil || a.Kind != AudienceBirthday {
				continue
			}
			if r.RedeemedAt.In(in.Today.Location()).Year() == year {
				return nil, ReasonBirthdayUsed
			}
		}
		return nil, ReasonNone

	case AudienceNewClients:
		for _, ap := range in.PriorAppointments {
			if appointment.Status(ap.Status) == appointment.StatusCancelled {
				continue
			}
			if startsBefore(ap, in.BookingStart) {
				return nil, ReasonNotNewClient
			}
		}
		for _, r := range in.Redemptions {
			a, err := ParseAudience(r.Promotion.Audience)
			if err == nil && a.Kind == AudienceNewClients {
				return nil, ReasonNotNewClient
			}
		}
		return nil, ReasonNone

	case AudienceTier:
		if in.User.TierLevel < audience.TierLevel {
			return nil, ReasonTierNotEligible
		}
	}

	return checkSingleUse(in)
}

// checkSingleUse: a redemption of this exact promotion that already has an appointment
// is consumed. Reserved redemptions (no appointment) stay usable. Points vouchers need
// a reserved redemption, one booking per instance.
func checkSingleUse(in Input) (*uint, Reason) {
	p := in.Promotion

	var reserved *uint
	consumed := false
	for i := range in.Redemptions {
		r := &in.Redemptions[i]
		if r.PromotionID != p.ID {
			continue
		}
		if r.AppointmentID != nil {
			consumed = true
			continue
		}
		if reserved == nil {
			id := r.ID
			reserved = &id
		}
	}

	if isPointsVoucher(p) {
		if reserved == nil {
			return nil, ReasonNotRedeemed
		}
		return reserved, ReasonNone
	}

	if consumed {
		return nil, ReasonAlreadyRedeemed
	}
	return reserved, ReasonNone
}

func isPointsVoucher(p models.Promotion) bool {
	return !p.IsPublic && p.PointsRequired != nil && *p.PointsRequired > 0
}

func startsBefore(ap models.Appointment, bookingStart time.Time) bool {
	minutes, err := timezone.ParseClock(ap.Time)
	if err != nil {
		minutes = 0
	}
	start := timezone.At(ap.Date, minutes, bookingStart.Location())
	return start.Before(bookingStart)
}

func computeDiscount(p models.Promotion, applicable decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercentage:
		d = applicable.Mul(p.DiscountValue).Div(hundred)
	default:
		d = p.DiscountValue
	}

	d = d.Round(2)
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(applicable) {
		return applicable
	}
	return d
}

// Allocate spreads the discount over the applicable cart items, proportionally to price.
// The last applicable item absorbs rounding so the parts sum to the discount.
func (r Result) Allocate(cart Cart) []decimal.Decimal {
	out := make([]decimal.Decimal, len(cart.Items))
	for i := range out {
		out[i] = decimal.Zero
	}
	if !r.Applicable || r.Discount.IsZero() || r.ApplicableSubtotal.IsZero() {
		return out
	}

	last := -1
	for i := range cart.Items {
		if i < len(r.applies) && r.applies[i] {
			last = i
		}
	}

	remaining := r.Discount
	for i, it := range cart.Items {
		if i >= len(r.applies) || !r.applies[i] {
			continue
		}
		if i == last {
			out[i] = remaining
			break
		}
		part := r.Discount.Mul(it.Price).Div(r.ApplicableSubtotal).Round(2)
		if part.GreaterThan(remaining) {
			part = remaining
		}
		out[i] = part
		remaining = remaining.Sub(part)
	}
	return out
}
