package appointment

import "github.com/BruksfildServices01/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusRejected},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusRejected:   nil,
	StatusCancelled:  nil,
	StatusCompleted:  nil,
}

// ActiveStatuses are the statuses that still occupy a slot.
var ActiveStatuses = []Status{StatusPending, StatusAccepted, StatusInProgress}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", httperr.ErrField("invalid_status", "status", "unknown status")
	}
	return s, nil
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanTransition rejects any edge outside the lifecycle graph.
func CanTransition(current, next Status) error {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return nil
		}
	}
	return httperr.ErrIllegalState("invalid_transition")
}

func InitialStatus() Status {
	return StatusPending
}
