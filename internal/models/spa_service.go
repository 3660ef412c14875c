package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpaService is a bookable treatment from the catalogue.
type SpaService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DurationMin int             `gorm:"not null" json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
