package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	bookingRepo "github.com/BruksfildServices01/spa-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

// ======================================================
// IN-MEMORY REPOSITORY
// ======================================================

type memState struct {
	appointments []models.Appointment
	courses      []models.TreatmentCourse
	sessions     []models.Session
	redemptions  []models.Redemption
	promotions   map[string]models.Promotion
	nextID       uint
}

func (s memState) clone() memState {
	out := memState{
		appointments: append([]models.Appointment(nil), s.appointments...),
		courses:      append([]models.TreatmentCourse(nil), s.courses...),
		sessions:     append([]models.Session(nil), s.sessions...),
		redemptions:  append([]models.Redemption(nil), s.redemptions...),
		promotions:   make(map[string]models.Promotion, len(s.promotions)),
		nextID:       s.nextID,
	}
	for k, p := range s.promotions {
		if p.Stock != nil {
			n := *p.Stock
			p.Stock = &n
		}
		out.promotions[k] = p
	}
	return out
}

type memRepo struct {
	services map[uint]models.SpaService
	users    map[uint]models.User
	state    memState

	// failCreate makes CreateAppointment fail, as a database constraint would.
	failCreate error
	// stealStock empties promotion stock right before the commit decrements it.
	stealStock bool
	// stealReservation consumes reserved redemptions right before the commit does.
	stealReservation bool

	transactions int
}

func newMemRepo() *memRepo {
	return &memRepo{
		services: map[uint]models.SpaService{},
		users:    map[uint]models.User{},
		state: memState{
			promotions: map[string]models.Promotion{},
			nextID:     100,
		},
	}
}

func (r *memRepo) id() uint {
	r.state.nextID++
	return r.state.nextID
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx bookingRepo.Repository) error) error {
	r.transactions++
	snapshot := r.state.clone()
	if err := fn(r); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *memRepo) GetServices(ctx context.Context, ids []uint) ([]models.SpaService, error) {
	var out []models.SpaService
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memRepo) bookings(match func(ap models.Appointment) bool, date time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if timezone.DateKey(ap.Date) != timezone.DateKey(date) {
			continue
		}
		if match(ap) {
			out = append(out, ap)
		}
	}
	return out
}

func (r *memRepo) ListBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error) {
	return r.bookings(func(ap models.Appointment) bool { return ap.ClientID == clientID }, date), nil
}

func (r *memRepo) ListBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error) {
	return r.bookings(func(ap models.Appointment) bool {
		return ap.TherapistID != nil && *ap.TherapistID == therapistID
	}, date), nil
}

func (r *memRepo) LockBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error) {
	return r.ListBookingsForClient(ctx, clientID, date)
}

func (r *memRepo) LockBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error) {
	return r.ListBookingsForTherapist(ctx, therapistID, date)
}

func (r *memRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	ap.ID = r.id()
	r.state.appointments = append(r.state.appointments, *ap)
	return nil
}

func (r *memRepo) CreateTreatmentCourse(ctx context.Context, c *models.TreatmentCourse) error {
	c.ID = r.id()
	r.state.courses = append(r.state.courses, *c)
	return nil
}

func (r *memRepo) CreateSessions(ctx context.Context, courseID uint, sessions []models.Session) ([]models.Session, error) {
	for i := range sessions {
		sessions[i].ID = r.id()
		sessions[i].CourseID = courseID
		r.state.sessions = append(r.state.sessions, sessions[i])
	}
	return sessions, nil
}

func (r *memRepo) LinkSessionAppointment(ctx context.Context, sessionID, appointmentID uint) error {
	for i := range r.state.sessions {
		if r.state.sessions[i].ID == sessionID {
			id := appointmentID
			r.state.sessions[i].AppointmentID = &id
		}
	}
	for i := range r.state.appointments {
		if r.state.appointments[i].ID == appointmentID {
			id := sessionID
			r.state.appointments[i].SessionID = &id
		}
	}
	return nil
}

func (r *memRepo) FindPromotionByCode(ctx context.Context, code string) (*models.Promotion, error) {
	p, ok := r.state.promotions[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memRepo) ListRedemptions(ctx context.Context, userID uint) ([]models.Redemption, error) {
	var out []models.Redemption
	for _, red := range r.state.redemptions {
		if red.UserID != userID {
			continue
		}
		for _, p := range r.state.promotions {
			if p.ID == red.PromotionID {
				red.Promotion = p
			}
		}
		out = append(out, red)
	}
	return out, nil
}

func (r *memRepo) ListPriorAppointments(ctx context.Context, clientID uint, before time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if ap.ClientID == clientID && ap.Status != string(domain.StatusCancelled) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memRepo) CreateRedemption(ctx context.Context, red *models.Redemption) error {
	red.ID = r.id()
	r.state.redemptions = append(r.state.redemptions, *red)
	return nil
}

func (r *memRepo) ConsumeRedemption(ctx context.Context, redemptionID, appointmentID uint) (bool, error) {
	for i := range r.state.redemptions {
		red := &r.state.redemptions[i]
		if red.ID != redemptionID {
			continue
		}
		if r.stealReservation {
			other := uint(1)
			red.AppointmentID = &other
		}
		if red.AppointmentID != nil {
			return false, nil
		}
		id := appointmentID
		red.AppointmentID = &id
		return true, nil
	}
	return false, nil
}

func (r *memRepo) DecrementStock(ctx context.Context, promotionID uint) (bool, error) {
	for code, p := range r.state.promotions {
		if p.ID != promotionID || p.Stock == nil {
			continue
		}
		n := *p.Stock
		if r.stealStock {
			n = 0
		}
		if n <= 0 {
			p.Stock = &n
			r.state.promotions[code] = p
			return false, nil
		}
		n--
		p.Stock = &n
		r.state.promotions[code] = p
		return true, nil
	}
	return false, nil
}

var _ bookingRepo.Repository = (*memRepo)(nil)

// ======================================================
// TEST DOUBLES
// ======================================================

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}
