package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/dto"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
)

type ListUserAppointments struct {
	repo domain.Repository
}

func NewListUserAppointments(
	repo domain.Repository,
) *ListUserAppointments {
	return &ListUserAppointments{
		repo: repo,
	}
}

// Execute returns the user's appointments with pet name and description.
// An empty result is reported as appointments_not_found.
func (uc *ListUserAppointments) Execute(
	ctx context.Context,
	userID string,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(appointments) == 0 {
		return nil, httperr.ErrBusiness("appointments_not_found")
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID: ap.ID,
			Pet: dto.PetSummaryDTO{
				ID:          ap.PetID,
				Name:        ap.Pet.Name,
				Description: ap.Pet.Description,
			},
			User:      ap.UserID,
			Date:      ap.Date,
			Status:    ap.Status,
			Notes:     ap.Notes,
			CreatedAt: ap.CreatedAt,
		})
	}

	return out, nil
}
