package models

import (
	"time"

	"github.com/google/uuid"
)

type Gym struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	InviteCode string    `json:"invite_code" db:"invite_code"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	MaxMembers int       `json:"max_members" db:"max_members"`
	LogoKey    *string   `json:"logo_key,omitempty" db:"logo_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
