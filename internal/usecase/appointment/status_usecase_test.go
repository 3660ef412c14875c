package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

var ict = time.FixedZone("ICT", 7*60*60)

var now = time.Date(2026, time.October, 17, 9, 0, 0, 0, ict)

const (
	clientID    uint = 1
	therapistID uint = 2
	staffID     uint = 3
)

func seed(repo *memRepo, id uint, status domain.Status, sessionID *uint) {
	t := therapistID
	repo.appointments[id] = models.Appointment{
		ID:          id,
		ClientID:    clientID,
		TherapistID: &t,
		Date:        time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		Time:        "10:00",
		DurationMin: 60,
		Status:      string(status),
		SessionID:   sessionID,
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	repo := newMemRepo()
	sink := &recordingSink{}
	clock := fixedClock{t: now}
	ctx := context.Background()

	sessionID := uint(40)
	seed(repo, 1, domain.StatusPending, &sessionID)

	therapist := Actor{UserID: therapistID, Role: models.RoleTherapist}

	ap, err := NewConfirmAppointment(repo, sink, clock).Execute(ctx, therapist, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusUpcoming), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)

	ap, err = NewStartAppointment(repo, sink, clock).Execute(ctx, therapist, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), ap.Status)

	ap, err = NewCompleteAppointment(repo, sink, clock).Execute(ctx, therapist, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), ap.Status)

	assert.Equal(t, models.SessionCompleted, repo.sessions[sessionID])
	assert.Equal(t, []string{
		"appointment_confirmed",
		"appointment_started",
		"appointment_completed",
	}, sink.actions())
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("therapist cancels and closes the session", func(t *testing.T) {
		repo := newMemRepo()
		sink := &recordingSink{}
		sessionID := uint(41)
		seed(repo, 1, domain.StatusUpcoming, &sessionID)

		ap, err := NewCancelAppointment(repo, sink, fixedClock{t: now}).
			Execute(ctx, Actor{UserID: therapistID, Role: models.RoleTherapist}, 1, "sick")
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), ap.Status)
		require.NotNil(t, ap.RejectionReason)
		assert.Equal(t, "sick", *ap.RejectionReason)
		assert.Equal(t, models.SessionCancelled, repo.sessions[sessionID])
		assert.Equal(t, []string{"appointment_cancelled"}, sink.actions())
	})

	t.Run("clients cannot cancel", func(t *testing.T) {
		repo := newMemRepo()
		seed(repo, 1, domain.StatusUpcoming, nil)

		_, err := NewCancelAppointment(repo, &recordingSink{}, fixedClock{t: now}).
			Execute(ctx, Actor{UserID: clientID, Role: models.RoleClient}, 1, "")
		assert.True(t, httperr.IsBusiness(err, "forbidden"))
		assert.Equal(t, string(domain.StatusUpcoming), repo.appointments[1].Status)
	})

	t.Run("another therapist's booking is not found", func(t *testing.T) {
		repo := newMemRepo()
		seed(repo, 1, domain.StatusUpcoming, nil)

		_, err := NewCancelAppointment(repo, &recordingSink{}, fixedClock{t: now}).
			Execute(ctx, Actor{UserID: 99, Role: models.RoleTherapist}, 1, "")
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	})

	t.Run("session write failure rolls the cancellation back", func(t *testing.T) {
		repo := newMemRepo()
		sink := &recordingSink{}
		sessionID := uint(42)
		seed(repo, 1, domain.StatusUpcoming, &sessionID)
		repo.sessions[sessionID] = models.SessionScheduled
		repo.failSessionUpdate = errors.New("connection reset by peer")

		_, err := NewCancelAppointment(repo, sink, fixedClock{t: now}).
			Execute(ctx, Actor{UserID: staffID, Role: models.RoleStaff}, 1, "")
		require.Error(t, err)

		assert.Equal(t, string(domain.StatusUpcoming), repo.appointments[1].Status)
		assert.Equal(t, models.SessionScheduled, repo.sessions[sessionID])
		assert.Empty(t, sink.actions())
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		repo := newMemRepo()
		seed(repo, 1, domain.StatusCompleted, nil)

		_, err := NewCancelAppointment(repo, &recordingSink{}, fixedClock{t: now}).
			Execute(ctx, Actor{UserID: staffID, Role: models.RoleStaff}, 1, "")
		assert.True(t, httperr.IsBusiness(err, "invalid_state"))
		assert.Equal(t, string(domain.StatusCompleted), repo.appointments[1].Status)
	})
}

func TestCompleteAppointment_SessionWriteFailureRollsBack(t *testing.T) {
	repo := newMemRepo()
	sessionID := uint(43)
	seed(repo, 1, domain.StatusInProgress, &sessionID)
	repo.sessions[sessionID] = models.SessionScheduled
	repo.failSessionUpdate = errors.New("connection reset by peer")

	_, err := NewCompleteAppointment(repo, &recordingSink{}, fixedClock{t: now}).
		Execute(context.Background(), Actor{UserID: therapistID, Role: models.RoleTherapist}, 1)
	require.Error(t, err)

	assert.Equal(t, string(domain.StatusInProgress), repo.appointments[1].Status)
	assert.Equal(t, models.SessionScheduled, repo.sessions[sessionID])
}

func TestLoadForActor_StorageErrorIsNotNotFound(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	repo := &failingGetRepo{memRepo: newMemRepo(), err: down}

	_, err := NewConfirmAppointment(repo, &recordingSink{}, fixedClock{t: now}).
		Execute(context.Background(), Actor{UserID: staffID, Role: models.RoleStaff}, 1)
	assert.ErrorIs(t, err, down)
	assert.False(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = NewConfirmAppointment(newMemRepo(), &recordingSink{}, fixedClock{t: now}).
		Execute(context.Background(), Actor{UserID: staffID, Role: models.RoleStaff}, 1)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestClientCannotDriveStatus(t *testing.T) {
	repo := newMemRepo()
	seed(repo, 1, domain.StatusPending, nil)
	client := Actor{UserID: clientID, Role: models.RoleClient}

	_, err := NewConfirmAppointment(repo, &recordingSink{}, fixedClock{t: now}).Execute(context.Background(), client, 1)
	assert.True(t, httperr.IsBusiness(err, "forbidden"))
	assert.Equal(t, string(domain.StatusPending), repo.appointments[1].Status)
}

func TestTherapistOnlySeesAssignedAppointments(t *testing.T) {
	repo := newMemRepo()
	seed(repo, 1, domain.StatusPending, nil)

	_, err := NewConfirmAppointment(repo, &recordingSink{}, fixedClock{t: now}).
		Execute(context.Background(), Actor{UserID: 77, Role: models.RoleTherapist}, 1)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestUpdateNotes(t *testing.T) {
	repo := newMemRepo()
	seed(repo, 1, domain.StatusCompleted, nil)
	uc := NewUpdateNotes(repo, &recordingSink{})
	client := Actor{UserID: clientID, Role: models.RoleClient}

	ap, err := uc.Execute(context.Background(), client, 1, "  prefers lavender oil  ")
	require.NoError(t, err)
	assert.Equal(t, "prefers lavender oil", ap.Notes)

	_, err = uc.Execute(context.Background(), client, 1, strings.Repeat("x", 256))
	assert.True(t, httperr.IsBusiness(err, "notes_too_long"))
}
