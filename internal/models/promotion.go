package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Promotion struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code  string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title string `gorm:"size:100" json:"title"`

	DiscountType  string          `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_value"`

	ExpiryDate time.Time `gorm:"type:date;not null" json:"expiry_date"`

	// Audience: "all", "new_clients", "birthday" or "tier:<level>".
	Audience string `gorm:"size:30;not null;default:'all'" json:"audience"`

	ApplicableServices []SpaService `gorm:"many2many:promotion_services;" json:"applicable_services"`

	MinOrderValue  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"min_order_value"`
	Stock          *int            `json:"stock"`
	PointsRequired *int            `json:"points_required"`
	IsPublic       bool            `gorm:"default:true" json:"is_public"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Promotion) ApplicableServiceIDs() []uint {
	ids := make([]uint, 0, len(p.ApplicableServices))
	for _, s := range p.ApplicableServices {
		ids = append(ids, s.ID)
	}
	return ids
}

// Redemption records that a user reserved or consumed a promotion.
// AppointmentID == nil means reserved but not yet used.
type Redemption struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID      uint      `gorm:"not null;index" json:"user_id"`
	PromotionID uint      `gorm:"not null;index" json:"promotion_id"`
	Promotion   Promotion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	AppointmentID *uint     `json:"appointment_id"`
	RedeemedAt    time.Time `gorm:"not null" json:"redeemed_at"`

	CreatedAt time.Time `json:"created_at"`
}
