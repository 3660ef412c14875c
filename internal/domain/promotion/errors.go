package promotion

import "fmt"

type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonNotFound             Reason = "promotion_not_found"
	ReasonInactive             Reason = "promotion_inactive"
	ReasonExpired              Reason = "promotion_expired"
	ReasonOutOfStock           Reason = "out_of_stock"
	ReasonMinOrderNotMet       Reason = "min_order_not_met"
	ReasonServiceNotApplicable Reason = "service_not_applicable"
	ReasonBirthdayUsed         Reason = "birthday_already_used"
	ReasonNotNewClient         Reason = "not_new_client"
	ReasonTierNotEligible      Reason = "tier_not_eligible"
	ReasonNotRedeemed          Reason = "voucher_not_redeemed"
	ReasonAlreadyRedeemed      Reason = "already_redeemed"
	ReasonUnknownAudience      Reason = "unknown_audience"
)

// IneligibleError is non-fatal: the booking goes ahead without the discount.
type IneligibleError struct {
	Code   string
	Reason Reason
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("promotion %q not applicable: %s", e.Code, e.Reason)
}
