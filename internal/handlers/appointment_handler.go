package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/spa-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	confirm     *ucAppointment.ConfirmAppointment
	start       *ucAppointment.StartAppointment
	complete    *ucAppointment.CompleteAppointment
	cancel      *ucAppointment.CancelAppointment
	updateNotes *ucAppointment.UpdateNotes
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth

	loc *time.Location
}

func NewAppointmentHandler(
	confirm *ucAppointment.ConfirmAppointment,
	start *ucAppointment.StartAppointment,
	complete *ucAppointment.CompleteAppointment,
	cancel *ucAppointment.CancelAppointment,
	updateNotes *ucAppointment.UpdateNotes,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		confirm:     confirm,
		start:       start,
		complete:    complete,
		cancel:      cancel,
		updateNotes: updateNotes,
		listByDate:  listByDate,
		listByMonth: listByMonth,
		loc:         loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

func actorFrom(c *gin.Context) ucAppointment.Actor {
	id, role := currentUser(c)
	return ucAppointment.Actor{UserID: id, Role: role}
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.confirm.Execute)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, h.start.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete.Execute)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	run func(ctx context.Context, actor ucAppointment.Actor, id uint) (*models.Appointment, error),
) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := run(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	// body is optional
	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) UpdateNotes(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.updateNotes.Execute(c.Request.Context(), actorFrom(c), id, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	therapistID, _ := currentUser(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDateIn(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	includeCancelled := c.Query("include_cancelled") == "true"

	out, err := h.listByDate.Execute(c.Request.Context(), therapistID, date, includeCancelled)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	therapistID, _ := currentUser(c)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), therapistID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  out,
	})
}
