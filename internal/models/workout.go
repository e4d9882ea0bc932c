package models

import (
	"time"

	"github.com/google/uuid"
)

type Workout struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	GymID        uuid.UUID  `json:"gym_id" db:"gym_id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	Notes        *string    `json:"notes" db:"notes"`
	ScheduledFor *time.Time `json:"scheduled_for" db:"scheduled_for"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
