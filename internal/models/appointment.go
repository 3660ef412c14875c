package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint       `gorm:"not null" json:"service_id"`
	Service   SpaService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	ClientID uint `gorm:"not null;index:idx_appointments_client_date" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	TherapistID *uint `gorm:"index:idx_appointments_therapist_date" json:"therapist_id"`
	Therapist   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"therapist,omitempty"`

	// Date is a calendar day stored as midnight UTC; Time is the local wall clock "HH:MM".
	Date        time.Time `gorm:"type:date;not null;index:idx_appointments_client_date;index:idx_appointments_therapist_date" json:"date"`
	Time        string    `gorm:"size:5;not null" json:"time"`
	DurationMin int       `gorm:"not null" json:"duration_min"`

	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Discount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`

	Status        string `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	GroupID   *string `gorm:"size:36;index" json:"group_id"`
	SessionID *uint   `gorm:"index" json:"session_id"`

	RejectionReason *string `gorm:"size:255" json:"rejection_reason"`
	Notes           string  `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
