package appointment

import (
	"strings"

	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// InitialStatus is the status every new appointment starts in.
func InitialStatus() Status {
	return StatusScheduled
}

// IsKnown reports whether s is one of the statuses the clinic defines.
// Updates may still store other values.
func IsKnown(s Status) bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus keeps the value as sent. A blank value means "not provided".
func ParseStatus(raw string) (Status, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return Status(raw), true
}

// ===============================
// Validations
// ===============================

// CanComplete allows completion from SCHEDULED only.
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
