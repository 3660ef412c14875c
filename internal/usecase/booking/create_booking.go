package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	bookingRepo "github.com/BruksfildServices01/spa-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/promotion"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

const minutesPerDay = 24 * 60

// errPromotionLost rolls back a commit whose promotion was taken concurrently
// (stock exhausted or reserved redemption consumed); the booking is retried without it.
var errPromotionLost = errors.New("promotion no longer available")

// ======================================================
// USE CASE
// ======================================================

type Options struct {
	Location         *time.Location
	CourseExpiryDays int
}

type CreateBooking struct {
	repo    bookingRepo.Repository
	audit   AuditSink
	metrics *metrics.Metrics
	log     *zap.Logger
	clock   timezone.Clock

	loc              *time.Location
	courseExpiryDays int
	newGroupID       func() string
}

func NewCreateBooking(
	repo bookingRepo.Repository,
	audit AuditSink,
	m *metrics.Metrics,
	log *zap.Logger,
	clock timezone.Clock,
	opts Options,
) *CreateBooking {
	loc := opts.Location
	if loc == nil {
		loc = timezone.Location("")
	}
	expiry := opts.CourseExpiryDays
	if expiry <= 0 {
		expiry = 180
	}

	return &CreateBooking{
		repo:             repo,
		audit:            audit,
		metrics:          m,
		log:              log,
		clock:            clock,
		loc:              loc,
		courseExpiryDays: expiry,
		newGroupID:       uuid.NewString,
	}
}

// plannedSlot is one service of the booking at its stacked start.
type plannedSlot struct {
	service models.SpaService
	slot    domain.Slot
}

// attempt carries one booking through the state machine.
type attempt struct {
	state State
	in    CreateBookingInput

	client *models.User
	date   time.Time
	start  int
	slots  []plannedSlot
	cart   promotion.Cart

	plan      *course.Plan
	courseEnd time.Time

	promo    *models.Promotion
	promoRes promotion.Result

	warnings []Warning
}

func (a *attempt) warn(code, message string) {
	a.warnings = append(a.warnings, Warning{Code: code, Message: message})
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*Outcome, error) {

	a := &attempt{state: StateDraft, in: in}
	now := uc.clock.Now().In(uc.loc)

	// --------------------------------------------------
	// 1️⃣ Validating
	// --------------------------------------------------
	a.state = StateValidating

	if err := uc.parseInput(a); err != nil {
		return uc.rejected(a, RejectMissingFields, err)
	}

	if err := uc.loadServices(ctx, a); err != nil {
		return uc.rejectOrFail(a, err)
	}

	if err := uc.checkSlots(ctx, a, now, false, uc.repo); err != nil {
		return uc.rejectOrFail(a, err)
	}

	if err := uc.planCourse(a); err != nil {
		return uc.rejectOrFail(a, err)
	}

	if strings.TrimSpace(in.PromoCode) != "" {
		if err := uc.evaluatePromotion(ctx, a, now); err != nil {
			return uc.fail(a, err)
		}
	}

	// --------------------------------------------------
	// 2️⃣ Committing
	// --------------------------------------------------
	a.state = StateCommitting

	out, err := uc.commit(ctx, a, now)
	if errors.Is(err, errPromotionLost) {
		uc.log.Info("promotion lost during commit, retrying without it",
			zap.String("code", a.in.PromoCode))
		a.promo = nil
		a.warn(string(RejectPromoInvalid), "The promotion was used up while booking and was not applied.")
		out, err = uc.commit(ctx, a, now)
	}
	if err != nil {
		return uc.rejectOrFail(a, err)
	}

	// --------------------------------------------------
	// 3️⃣ Committed
	// --------------------------------------------------
	a.state = StateCommitted
	out.State = a.state
	out.Warnings = a.warnings

	uc.metrics.BookingOutcome(string(StateCommitted))
	uc.log.Info("booking committed",
		zap.String("group_id", out.GroupID),
		zap.Uint("client_id", in.ClientID),
		zap.Int("appointments", len(out.Appointments)),
		zap.String("discount", out.Discount.String()),
	)

	firstID := out.Appointments[0].ID
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "booking_committed",
		Entity:   "appointment",
		EntityID: &firstID,
		Metadata: map[string]any{
			"group_id":  out.GroupID,
			"count":     len(out.Appointments),
			"promotion": in.PromoCode,
		},
	})

	return out, nil
}

// ======================================================
// VALIDATION
// ======================================================

func (uc *CreateBooking) parseInput(a *attempt) error {
	in := a.in

	var missing []string
	if in.ClientID == 0 {
		missing = append(missing, "client")
	}
	if len(in.ServiceIDs) == 0 {
		missing = append(missing, "services")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Time) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}

	date, err := timezone.ParseDate(in.Date, uc.loc)
	if err != nil {
		return &domain.ValidationError{Fields: []string{"date"}, Detail: "invalid date"}
	}
	start, err := timezone.ParseClock(in.Time)
	if err != nil {
		return &domain.ValidationError{Fields: []string{"time"}, Detail: "invalid time"}
	}

	if in.NumberOfSessions < 0 {
		return &domain.ValidationError{Fields: []string{"number_of_sessions"}, Detail: "number of sessions cannot be negative"}
	}

	if in.NumberOfSessions > 1 && len(in.WeekDays) > 0 {
		inPattern := false
		for _, d := range in.WeekDays {
			if d == int(date.Weekday()) {
				inPattern = true
				break
			}
		}
		if !inPattern {
			return &domain.ValidationError{
				Fields: []string{"week_days"},
				Detail: "the first session date must fall on one of the course weekdays",
			}
		}
	}

	a.date = date
	a.start = start
	return nil
}

func (uc *CreateBooking) loadServices(ctx context.Context, a *attempt) error {
	client, err := uc.repo.GetUser(ctx, a.in.ClientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return &domain.ValidationError{Fields: []string{"client"}, Detail: "unknown client"}
	}
	a.client = client

	services, err := uc.repo.GetServices(ctx, a.in.ServiceIDs)
	if err != nil {
		return fmt.Errorf("load services: %w", err)
	}

	byID := make(map[uint]models.SpaService, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	offset := a.start
	for _, id := range a.in.ServiceIDs {
		svc, ok := byID[id]
		if !ok || !svc.Active {
			return &domain.ValidationError{Fields: []string{"services"}, Detail: fmt.Sprintf("unknown service %d", id)}
		}
		if svc.DurationMin <= 0 {
			return &domain.ValidationError{Fields: []string{"services"}, Detail: fmt.Sprintf("service %d has no duration", id)}
		}
		if offset+svc.DurationMin > minutesPerDay {
			return &domain.ValidationError{Fields: []string{"time"}, Detail: "booking runs past midnight"}
		}

		a.slots = append(a.slots, plannedSlot{
			service: svc,
			slot:    domain.Slot{Date: a.date, Start: offset},
		})
		a.cart.Items = append(a.cart.Items, promotion.CartItem{ServiceID: svc.ID, Price: svc.Price})
		offset += svc.DurationMin
	}

	return nil
}

// checkSlots runs the availability check for every stacked service against the client's
// and the therapist's bookings. locked re-reads them under row locks for the final check.
func (uc *CreateBooking) checkSlots(
	ctx context.Context,
	a *attempt,
	now time.Time,
	locked bool,
	repo bookingRepo.Repository,
) error {

	var (
		clientBookings    []models.Appointment
		therapistBookings []models.Appointment
		err               error
	)

	if locked {
		clientBookings, err = repo.LockBookingsForClient(ctx, a.in.ClientID, a.date)
	} else {
		clientBookings, err = repo.ListBookingsForClient(ctx, a.in.ClientID, a.date)
	}
	if err != nil {
		return fmt.Errorf("load client bookings: %w", err)
	}

	if a.in.TherapistID != nil {
		if locked {
			therapistBookings, err = repo.LockBookingsForTherapist(ctx, *a.in.TherapistID, a.date)
		} else {
			therapistBookings, err = repo.ListBookingsForTherapist(ctx, *a.in.TherapistID, a.date)
		}
		if err != nil {
			return fmt.Errorf("load therapist bookings: %w", err)
		}
	}

	for _, ps := range a.slots {
		v := domain.Check(ps.slot, ps.service.DurationMin, clientBookings, now)
		if v.OK() && a.in.TherapistID != nil {
			v = domain.Check(ps.slot, ps.service.DurationMin, therapistBookings, now)
		}
		if !v.OK() {
			return &domain.SlotConflictError{
				ServiceID: ps.service.ID,
				Date:      a.in.Date,
				Time:      timezone.FormatClock(ps.slot.Start),
				Reason:    v.Reason,
			}
		}
	}

	return nil
}

func (uc *CreateBooking) planCourse(a *attempt) error {
	if a.in.NumberOfSessions <= 1 {
		return nil
	}

	first := a.slots[0]
	perWeek := a.in.SessionsPerWeek
	if perWeek <= 0 {
		perWeek = 1
	}

	a.courseEnd = a.date.AddDate(0, 0, uc.courseExpiryDays)

	plan, err := course.GenerateSessions(course.Spec{
		TotalSessions:   a.in.NumberOfSessions,
		SessionsPerWeek: perWeek,
		WeekDays:        a.in.WeekDays,
		SessionTime:     timezone.FormatClock(first.slot.Start),
		StartDate:       a.date,
		ExpiryDate:      a.courseEnd,
	})
	if err != nil {
		return &domain.ValidationError{Fields: []string{"number_of_sessions"}, Detail: err.Error()}
	}

	if w := plan.BoundsWarning(a.courseEnd); w != nil {
		a.warn("course_expiry", w.Error())
	}

	a.plan = &plan
	return nil
}

func (uc *CreateBooking) evaluatePromotion(ctx context.Context, a *attempt, now time.Time) error {
	p, res, err := promotion.FindAndEvaluate(ctx, uc.repo, promotion.Lookup{
		Code:         a.in.PromoCode,
		User:         *a.client,
		Cart:         a.cart,
		BookingStart: a.slots[0].slot.StartTime(),
		Today:        now,
	})
	if err != nil {
		return fmt.Errorf("evaluate promotion: %w", err)
	}

	uc.metrics.PromotionEvaluated(string(res.Reason))

	if !res.Applicable {
		ineligible := res.Err(a.in.PromoCode)
		uc.log.Info("promotion not applied", zap.Error(ineligible))
		a.warn(string(RejectPromoInvalid), ineligible.Error())
		return nil
	}

	a.promo = p
	a.promoRes = res
	return nil
}

// ======================================================
// COMMIT
// ======================================================

func (uc *CreateBooking) commit(ctx context.Context, a *attempt, now time.Time) (*Outcome, error) {
	groupID := uc.newGroupID()

	var out *Outcome
	err := uc.repo.Transaction(ctx, func(tx bookingRepo.Repository) error {

		// authoritative re-check under lock
		if err := uc.checkSlots(ctx, a, now, true, tx); err != nil {
			return err
		}

		discounts := make([]decimal.Decimal, len(a.slots))
		for i := range discounts {
			discounts[i] = decimal.Zero
		}

		if a.promo != nil {
			if a.promo.IsPublic && a.promo.Stock != nil {
				ok, err := tx.DecrementStock(ctx, a.promo.ID)
				if err != nil {
					return err
				}
				if !ok {
					return errPromotionLost
				}
			}
			discounts = a.promoRes.Allocate(a.cart)
		}

		res := &Outcome{
			GroupID:  groupID,
			Subtotal: a.cart.Subtotal(),
			Discount: decimal.Zero,
		}

		for i, ps := range a.slots {
			ap := models.Appointment{
				ServiceID:     ps.service.ID,
				ClientID:      a.in.ClientID,
				TherapistID:   a.in.TherapistID,
				Date:          timezone.CivilDate(a.date),
				Time:          timezone.FormatClock(ps.slot.Start),
				DurationMin:   ps.service.DurationMin,
				Price:         ps.service.Price,
				Discount:      discounts[i],
				Status:        string(domain.InitialStatus()),
				PaymentStatus: models.PaymentUnpaid,
				GroupID:       &groupID,
				Notes:         a.in.Notes,
			}

			if err := tx.CreateAppointment(ctx, &ap); err != nil {
				return err
			}

			res.Discount = res.Discount.Add(discounts[i])
			res.Appointments = append(res.Appointments, ap)
		}

		if a.plan != nil {
			c, err := uc.createCourse(ctx, tx, a, &res.Appointments[0])
			if err != nil {
				return err
			}
			res.Course = c
		}

		if a.promo != nil {
			if err := uc.redeem(ctx, tx, a, res.Appointments[0].ID, now); err != nil {
				return err
			}
		}

		res.Total = res.Subtotal.Sub(res.Discount)
		out = res
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *CreateBooking) createCourse(
	ctx context.Context,
	tx bookingRepo.Repository,
	a *attempt,
	first *models.Appointment,
) (*models.TreatmentCourse, error) {

	svc := a.slots[0].service
	perWeek := a.in.SessionsPerWeek
	if perWeek <= 0 {
		perWeek = len(a.in.WeekDays)
	}
	if perWeek <= 0 {
		perWeek = 1
	}

	c := &models.TreatmentCourse{
		ServiceID:       svc.ID,
		ClientID:        a.in.ClientID,
		TherapistID:     a.in.TherapistID,
		TotalSessions:   a.in.NumberOfSessions,
		SessionsPerWeek: perWeek,
		WeekDays:        course.FormatWeekDays(a.in.WeekDays),
		SessionTime:     first.Time,
		SessionDuration: svc.DurationMin,
		StartDate:       timezone.CivilDate(a.date),
		ExpiryDate:      timezone.CivilDate(a.courseEnd),
		ExpiryWarning:   a.plan.ExpiryWarning(),
		Status:          models.CourseActive,
	}

	if err := tx.CreateTreatmentCourse(ctx, c); err != nil {
		return nil, err
	}

	sessions, err := tx.CreateSessions(ctx, c.ID, course.ToSessions(c.ID, a.in.TherapistID, *a.plan))
	if err != nil {
		return nil, err
	}

	if err := tx.LinkSessionAppointment(ctx, sessions[0].ID, first.ID); err != nil {
		return nil, err
	}
	apID := first.ID
	sessions[0].AppointmentID = &apID
	sessionID := sessions[0].ID
	first.SessionID = &sessionID

	c.Sessions = sessions
	uc.metrics.SessionsPlanned(len(sessions))

	return c, nil
}

func (uc *CreateBooking) redeem(
	ctx context.Context,
	tx bookingRepo.Repository,
	a *attempt,
	appointmentID uint,
	now time.Time,
) error {

	if id := a.promoRes.ReservedRedemptionID; id != nil {
		ok, err := tx.ConsumeRedemption(ctx, *id, appointmentID)
		if err != nil {
			return err
		}
		if !ok {
			return errPromotionLost
		}
		return nil
	}

	return tx.CreateRedemption(ctx, &models.Redemption{
		UserID:        a.in.ClientID,
		PromotionID:   a.promo.ID,
		AppointmentID: &appointmentID,
		RedeemedAt:    now,
	})
}

// ======================================================
// OUTCOMES
// ======================================================

func (uc *CreateBooking) rejected(a *attempt, reason RejectReason, err error) (*Outcome, error) {
	a.state = StateRejected
	uc.metrics.BookingOutcome(string(reason))
	uc.log.Info("booking rejected",
		zap.String("reason", string(reason)),
		zap.Uint("client_id", a.in.ClientID),
		zap.Error(err),
	)
	return nil, &RejectedError{Reason: reason, Err: err}
}

// rejectOrFail maps domain errors onto a rejection; anything else is an internal failure.
func (uc *CreateBooking) rejectOrFail(a *attempt, err error) (*Outcome, error) {
	var (
		validation  *domain.ValidationError
		conflict    *domain.SlotConflictError
		persistence *domain.PersistenceConflictError
	)

	switch {
	case errors.As(err, &validation):
		return uc.rejected(a, RejectMissingFields, err)
	case errors.As(err, &conflict):
		return uc.rejected(a, RejectSlotConflict, err)
	case errors.As(err, &persistence):
		return uc.rejected(a, RejectSlotConflict, &domain.SlotConflictError{
			Date:   a.in.Date,
			Time:   a.in.Time,
			Reason: domain.ReasonOverlap,
		})
	}

	return uc.fail(a, err)
}

func (uc *CreateBooking) fail(a *attempt, err error) (*Outcome, error) {
	a.state = StateRejected
	uc.metrics.BookingOutcome("error")
	uc.log.Error("booking failed", zap.Uint("client_id", a.in.ClientID), zap.Error(err))
	return nil, fmt.Errorf("create booking: %w", err)
}
