package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	ucBooking "github.com/BruksfildServices01/spa-scheduler/internal/usecase/booking"
)

type conflictBody struct {
	httperr.HTTPError
	ServiceID uint   `json:"service_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

var businessMessages = map[string]string{
	"appointment_not_found":  "Appointment not found.",
	"service_not_found":      "Service not found.",
	"user_not_found":         "User not found.",
	"notes_too_long":         "Notes are limited to 255 characters.",
	httperr.CodeForbidden:    "Not allowed.",
	httperr.CodeInvalidState: "Invalid status transition.",
}

// writeError maps use case errors onto the HTTP error envelope.
func writeError(c *gin.Context, err error) {
	var (
		rejected    *ucBooking.RejectedError
		conflict    *domain.SlotConflictError
		persistence *domain.PersistenceConflictError
		validation  *domain.ValidationError
		business    httperr.BusinessError
	)

	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, conflictBody{
			HTTPError: httperr.HTTPError{
				Code:    string(ucBooking.RejectSlotConflict),
				Message: "The selected time is not available.",
			},
			ServiceID: conflict.ServiceID,
			Date:      conflict.Date,
			Time:      conflict.Time,
			Reason:    string(conflict.Reason),
		})
		return
	}

	if errors.As(err, &persistence) {
		c.JSON(http.StatusConflict, conflictBody{
			HTTPError: httperr.HTTPError{
				Code:    string(ucBooking.RejectSlotConflict),
				Message: "The selected time is not available.",
			},
			Reason: string(domain.ReasonOverlap),
		})
		return
	}

	if errors.As(err, &validation) {
		httperr.BadRequest(c, string(ucBooking.RejectMissingFields), validation.Error())
		return
	}

	if errors.As(err, &rejected) {
		httperr.Conflict(c, string(rejected.Reason), rejected.Error())
		return
	}

	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		httperr.NotFound(c, "course_not_found", "Course not found.")
		return
	case errors.Is(err, course.ErrSessionNotFound):
		httperr.NotFound(c, "session_not_found", "Session not found.")
		return
	case errors.Is(err, course.ErrSessionBooked):
		httperr.Conflict(c, "session_already_booked", "Session already has an appointment.")
		return
	case errors.Is(err, course.ErrSessionClosed):
		httperr.Conflict(c, "session_closed", "Session can no longer be booked.")
		return
	}

	if errors.As(err, &business) {
		msg, ok := businessMessages[business.Code]
		if !ok {
			msg = business.Code
		}
		httperr.Write(c, business.Status(), business.Code, msg)
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, "internal_error", "Unexpected error.")
}
