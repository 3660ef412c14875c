package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type memRepo struct {
	services     map[uint]models.SpaService
	appointments map[uint]models.Appointment
	hours        map[[2]uint]models.WorkingHours
	sessions     map[uint]string

	failSessionUpdate error
}

func newMemRepo() *memRepo {
	return &memRepo{
		services:     map[uint]models.SpaService{},
		appointments: map[uint]models.Appointment{},
		hours:        map[[2]uint]models.WorkingHours{},
		sessions:     map[uint]string{},
	}
}

// Transaction restores the stored appointments and sessions when fn fails.
func (r *memRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	appointments := make(map[uint]models.Appointment, len(r.appointments))
	for id, ap := range r.appointments {
		appointments[id] = ap
	}
	sessions := make(map[uint]string, len(r.sessions))
	for id, s := range r.sessions {
		sessions[id] = s
	}

	if err := fn(r); err != nil {
		r.appointments = appointments
		r.sessions = sessions
		return err
	}
	return nil
}

func (r *memRepo) GetService(ctx context.Context, id uint) (*models.SpaService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &s, nil
}

func (r *memRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return &ap, nil
}

func (r *memRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) UpdateSessionStatus(ctx context.Context, sessionID uint, status string) error {
	if r.failSessionUpdate != nil {
		return r.failSessionUpdate
	}
	r.sessions[sessionID] = status
	return nil
}

func (r *memRepo) GetWorkingHours(ctx context.Context, therapistID uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := r.hours[[2]uint{therapistID, uint(weekday)}]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *memRepo) ListBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TherapistID == nil || *ap.TherapistID != therapistID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) || timezone.DateKey(ap.Date) != timezone.DateKey(date) {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *memRepo) ListAppointmentsForPeriod(ctx context.Context, therapistID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TherapistID == nil || *ap.TherapistID != therapistID {
			continue
		}
		key := timezone.DateKey(ap.Date)
		if key >= timezone.DateKey(start) && key < timezone.DateKey(end) {
			out = append(out, ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

type failingGetRepo struct {
	*memRepo
	err error
}

func (r *failingGetRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	return nil, r.err
}

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

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}
