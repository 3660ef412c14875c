package appointment

import "github.com/BruksfildServices01/spa-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusUpcoming, StatusCancelled},
	StatusUpcoming:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

// IsTerminal reports whether only notes may change.
func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
}

func InitialStatus() Status {
	return StatusPending
}
