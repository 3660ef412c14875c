package models

import "time"

// WorkingHours is one weekday of a therapist's schedule. Clock fields are "HH:MM";
// an empty lunch means no break.
type WorkingHours struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TherapistID uint `gorm:"not null;uniqueIndex:ux_working_hours_day" json:"therapist_id"`
	Weekday     int  `gorm:"not null;uniqueIndex:ux_working_hours_day" json:"weekday"` // Sunday = 0

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
