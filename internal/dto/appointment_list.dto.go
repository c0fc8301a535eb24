package dto

import "time"

type PetSummaryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AppointmentListDTO struct {
	ID        string        `json:"id"`
	Pet       PetSummaryDTO `json:"pet"`
	User      string        `json:"user"`
	Date      time.Time     `json:"date"`
	Status    string        `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
