package models

import "time"

const (
	RoleClient    = "client"
	RoleTherapist = "therapist"
	RoleStaff     = "staff"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
	Role  string `gorm:"size:20;default:'client'" json:"role"`

	Birthday  *time.Time `gorm:"type:date" json:"birthday"`
	TierLevel int        `gorm:"default:0" json:"tier_level"`
	Points    int        `gorm:"default:0" json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
