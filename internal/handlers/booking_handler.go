package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/infra/idempotency"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	ucBooking "github.com/BruksfildServices01/spa-scheduler/internal/usecase/booking"
)

const idempotencyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (*idempotency.Response, error)
	Save(ctx context.Context, key string, resp idempotency.Response) error
	Release(ctx context.Context, key string) error
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create *ucBooking.CreateBooking
	idem   IdempotencyStore // nil disables replay
	log    *zap.Logger
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	idem IdempotencyStore,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		create: create,
		idem:   idem,
		log:    log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientID    uint   `json:"client_id"` // staff only; clients book for themselves
	TherapistID *uint  `json:"therapist_id"`
	ServiceIDs  []uint `json:"service_ids"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:mm
	PromoCode   string `json:"promo_code"`

	NumberOfSessions int   `json:"number_of_sessions"`
	SessionsPerWeek  int   `json:"sessions_per_week"`
	WeekDays         []int `json:"week_days"`

	Notes string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID, role := currentUser(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	clientID := userID
	if role == models.RoleStaff && req.ClientID != 0 {
		clientID = req.ClientID
	}

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if key != "" && h.idem != nil {
		key = fmt.Sprintf("%d:%s", userID, key)

		prev, err := h.idem.Begin(c.Request.Context(), key)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			httperr.Conflict(c, "request_in_flight", "The same booking is still being processed.")
			return
		case err != nil:
			// replay is best effort; book without it
			h.log.Warn("idempotency store unavailable", zap.Error(err))
			key = ""
		case prev != nil:
			c.Header("Idempotent-Replayed", "true")
			c.Data(prev.Status, "application/json; charset=utf-8", prev.Body)
			return
		}
	} else {
		key = ""
	}

	out, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		ClientID:         clientID,
		TherapistID:      req.TherapistID,
		ServiceIDs:       req.ServiceIDs,
		Date:             req.Date,
		Time:             req.Time,
		PromoCode:        req.PromoCode,
		NumberOfSessions: req.NumberOfSessions,
		SessionsPerWeek:  req.SessionsPerWeek,
		WeekDays:         req.WeekDays,
		Notes:            req.Notes,
	})
	if err != nil {
		h.release(c.Request.Context(), key)
		writeError(c, err)
		return
	}

	body, err := json.Marshal(out)
	if err != nil {
		h.release(c.Request.Context(), key)
		httperr.Internal(c, "encode_failed", "Failed to encode booking.")
		return
	}

	if key != "" {
		if err := h.idem.Save(c.Request.Context(), key, idempotency.Response{
			Status: http.StatusCreated,
			Body:   body,
		}); err != nil {
			h.log.Warn("idempotency save failed", zap.Error(err))
		}
	}

	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}

func (h *BookingHandler) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.idem.Release(ctx, key); err != nil {
		h.log.Warn("idempotency release failed", zap.Error(err))
	}
}
