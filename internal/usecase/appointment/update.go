package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	UserID        string
	AppointmentID string
	Date          *string
	Status        *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
	log   *slog.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
	log *slog.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		loc:   loc,
		log:   log,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if _, err := uc.repo.GetUserByID(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if ap.UserID != in.UserID {
		return nil, httperr.ErrBusiness("appointment_forbidden")
	}

	var changes domain.Changes

	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		date, err := domain.ParseDate(*in.Date, uc.loc)
		if err != nil {
			return nil, err
		}
		changes.Date = &date
	}

	if in.Status != nil {
		if status, ok := domain.ParseStatus(*in.Status); ok {
			if !domain.IsKnown(status) {
				uc.log.WarnContext(ctx, "appointment updated with unknown status",
					slog.String("appointment_id", ap.ID),
					slog.String("status", string(status)),
				)
			}
			changes.Status = &status
		}
	}

	// nothing to write
	if changes.Empty() {
		return ap, nil
	}

	domain.Apply(ap, changes)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"date":   ap.Date,
			"status": ap.Status,
		},
	})

	return ap, nil
}
