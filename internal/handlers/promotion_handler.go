package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/httpresp"
	ucPromotion "github.com/BruksfildServices01/spa-scheduler/internal/usecase/promotion"
)

type PromotionHandler struct {
	quote *ucPromotion.QuotePromotion
}

func NewPromotionHandler(quote *ucPromotion.QuotePromotion) *PromotionHandler {
	return &PromotionHandler{quote: quote}
}

type QuoteRequest struct {
	Code       string `json:"code"`
	ServiceIDs []uint `json:"service_ids"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// Quote previews a promo code against a cart. Nothing is reserved.
func (h *PromotionHandler) Quote(c *gin.Context) {
	userID, _ := currentUser(c)

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	q, err := h.quote.Execute(c.Request.Context(), ucPromotion.QuoteInput{
		UserID:     userID,
		Code:       req.Code,
		ServiceIDs: req.ServiceIDs,
		Date:       req.Date,
		Time:       req.Time,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, q)
}
