package appointment

import (
	"time"

	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel marks the appointment as cancelled. Cancelling twice is allowed.
func Cancel(ap *models.Appointment) {
	ap.Status = string(StatusCancelled)
}

// Complete closes a scheduled visit. Only SCHEDULED appointments can be
// completed.
func Complete(ap *models.Appointment) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCompleted)
	return nil
}

// Changes holds the optional fields of an update; nil means untouched.
type Changes struct {
	Date   *time.Time
	Status *Status
}

func (c Changes) Empty() bool {
	return c.Date == nil && c.Status == nil
}

// Apply writes the present fields onto ap. Conflicts are not re-checked.
func Apply(ap *models.Appointment, ch Changes) {
	if ch.Date != nil {
		ap.Date = *ch.Date
	}
	if ch.Status != nil {
		ap.Status = string(*ch.Status)
	}
}
