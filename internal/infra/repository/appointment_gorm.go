package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Pet / User
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPetByID(
	ctx context.Context,
	id string,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, mapError(err, "pet", id)
	}
	return &pet, nil
}

func (r *AppointmentGormRepository) GetUserByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapError(err, "user", id)
	}
	return &user, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		return mapError(err, "appointment", ap.ID)
	}
	return nil
}

func (r *AppointmentGormRepository) AssertNoDayConflict(
	ctx context.Context,
	petID string,
	userID string,
	start time.Time,
	end time.Time,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"pet_id = ? AND user_id = ? AND date >= ? AND date < ?",
			petID,
			userID,
			start,
			end,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("appointment_conflict")
	}

	return nil
}

// --------------------------------------------------
// Appointment (read / update)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, mapError(err, "appointment", id)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsByUser(
	ctx context.Context,
	userID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Pet").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).
		Model(ap).
		Select("date", "status", "updated_at").
		Updates(ap).Error
	if err != nil {
		return mapError(err, "appointment", ap.ID)
	}
	return nil
}

// mapError converts gorm/pgconn errors to domain errors.
func mapError(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, httperr.ErrBusiness("appointment_conflict"))
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
