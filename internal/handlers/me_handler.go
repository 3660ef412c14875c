package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, _ := currentUser(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var birthday string
	if user.Birthday != nil {
		birthday = timezone.DateKey(*user.Birthday)
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       user.Role,
			"birthday":   birthday,
			"tier_level": user.TierLevel,
			"points":     user.Points,
		},
	})
}

// MyRedemptions lists the caller's reserved and used promotions.
func (h *MeHandler) MyRedemptions(c *gin.Context) {
	userID, _ := currentUser(c)

	var out []models.Redemption
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Promotion").
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&out).Error; err != nil {
		httperr.Internal(c, "failed_to_list_redemptions", "Failed to list redemptions.")
		return
	}

	type item struct {
		ID            uint   `json:"id"`
		Code          string `json:"code"`
		Title         string `json:"title"`
		AppointmentID *uint  `json:"appointment_id"`
		RedeemedAt    string `json:"redeemed_at"`
		Used          bool   `json:"used"`
	}

	items := make([]item, 0, len(out))
	for _, r := range out {
		items = append(items, item{
			ID:            r.ID,
			Code:          r.Promotion.Code,
			Title:         r.Promotion.Title,
			AppointmentID: r.AppointmentID,
			RedeemedAt:    r.RedeemedAt.Format(time.RFC3339),
			Used:          r.AppointmentID != nil,
		})
	}

	httpresp.List(c, items)
}
