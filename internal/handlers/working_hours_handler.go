package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/validators"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	therapistID, _ := currentUser(c)

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("therapist_id = ?", therapistID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Failed to load working hours.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	therapistID, _ := currentUser(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var toCreate []models.WorkingHours
	seen := make(map[int]bool, len(req.Days))
	for _, d := range req.Days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[d.Weekday] {
			httperr.BadRequest(c, "invalid_weekday", "Each weekday (0-6) may appear once.")
			return
		}
		seen[d.Weekday] = true

		if err := validators.WorkingDay(d.Active, d.StartTime, d.EndTime, d.LunchStart, d.LunchEnd); err != nil {
			httperr.BadRequest(c, "invalid_working_hours", err.Error())
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			TherapistID: therapistID,
			Weekday:     d.Weekday,
			Active:      d.Active,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			LunchStart:  d.LunchStart,
			LunchEnd:    d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("therapist_id = ?", therapistID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Failed to save working hours.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: &therapistID,
		Action: "working_hours_updated",
		Entity: "working_hours",
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
