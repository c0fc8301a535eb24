package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	PetID string `gorm:"type:uuid;index:idx_appointment_pet_user;not null" json:"pet"`
	Pet   Pet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	UserID string `gorm:"type:uuid;index:idx_appointment_pet_user;index;not null" json:"user"`

	Date   time.Time `gorm:"index;not null" json:"date"`
	Status string    `gorm:"size:30;default:'SCHEDULED'" json:"status"`
	Notes  string    `gorm:"size:255" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
