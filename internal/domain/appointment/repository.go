package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

type Repository interface {
	// -------- Pet / User (read-only) --------
	GetPetByID(
		ctx context.Context,
		id string,
	) (*models.Pet, error)

	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// AssertNoDayConflict fails with the appointment_conflict business
	// error when (pet, user) already has an appointment in [start, end).
	AssertNoDayConflict(
		ctx context.Context,
		petID string,
		userID string,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (read / state change) --------
	GetAppointmentByID(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	// ListAppointmentsByUser returns appointments with Pet loaded, in
	// insertion order.
	ListAppointmentsByUser(
		ctx context.Context,
		userID string,
	) ([]models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
