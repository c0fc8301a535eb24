package models

import "time"

// Pet is owned by the pets module; appointments only read it.
type Pet struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string `gorm:"type:uuid;index" json:"owner"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
