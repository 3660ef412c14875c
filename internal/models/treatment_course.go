package models

import "time"

const (
	CourseActive    = "active"
	CourseCompleted = "completed"
	CoursePaused    = "paused"
)

const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
	SessionMissed    = "missed"
)

type TreatmentCourse struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint       `gorm:"not null" json:"service_id"`
	Service   SpaService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID    uint  `gorm:"not null;index" json:"client_id"`
	TherapistID *uint `json:"therapist_id"`

	TotalSessions   int    `gorm:"not null" json:"total_sessions"`
	SessionsPerWeek int    `json:"sessions_per_week"`
	WeekDays        string `gorm:"size:20" json:"week_days"` // comma separated 0..6, Sunday = 0
	SessionTime     string `gorm:"size:5;not null" json:"session_time"`
	SessionDuration int    `gorm:"not null" json:"session_duration"`

	StartDate     time.Time `gorm:"type:date;not null" json:"start_date"`
	ExpiryDate    time.Time `gorm:"type:date;not null" json:"expiry_date"`
	ExpiryWarning bool      `gorm:"default:false" json:"expiry_warning"`

	Status string `gorm:"size:20;default:'active'" json:"status"`

	Sessions []Session `gorm:"foreignKey:CourseID" json:"sessions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Session struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CourseID uint `gorm:"not null;uniqueIndex:ux_sessions_course_seq" json:"course_id"`
	Sequence int  `gorm:"not null;uniqueIndex:ux_sessions_course_seq" json:"sequence"`

	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Time        string    `gorm:"size:5;not null" json:"time"`
	Status      string    `gorm:"size:20;default:'scheduled'" json:"status"`
	TherapistID *uint     `json:"therapist_id"`

	AppointmentID *uint `gorm:"uniqueIndex" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
