package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/vet-scheduler/internal/models"
	"github.com/BruksfildServices01/vet-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PetID  string
	UserID string
	Date   string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	loc    *time.Location
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	loc *time.Location,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		locker: locker,
		audit:  audit,
		loc:    loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Date
	// --------------------------------------------------
	date, err := domain.ParseDate(in.Date, uc.loc)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Pet (the user is not looked up here)
	// --------------------------------------------------
	if _, err := uc.repo.GetPetByID(ctx, in.PetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("pet_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. One create at a time per pet + user
	// --------------------------------------------------
	release, err := uc.locker.Lock(ctx, "appointment:"+in.PetID+":"+in.UserID)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, httperr.ErrBusiness("appointment_busy")
		}
		return nil, err
	}
	defer release()

	// --------------------------------------------------
	// 4. Same-day conflict
	// --------------------------------------------------
	start, end := timezone.DayBounds(date, uc.loc)

	if err := uc.repo.AssertNoDayConflict(
		ctx,
		in.PetID,
		in.UserID,
		start,
		end,
	); err != nil {
		if httperr.IsBusiness(err, "appointment_conflict") {
			uc.audit.Dispatch(audit.Event{
				UserID: &in.UserID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"pet":  in.PetID,
					"date": date,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 5. Persist
	// --------------------------------------------------
	ap := &models.Appointment{
		PetID:  in.PetID,
		UserID: in.UserID,
		Date:   date,
		Status: string(domain.InitialStatus()),
		Notes:  in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
