package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Closed, flat enumeration - not a hierarchy.
const (
	UserTypeAluno    = "aluno"
	UserTypePersonal = "personal"
	UserTypeAcademia = "academia"
	UserTypeAdmin    = "admin"
)

// ValidUserType reports whether t is one of the known roles.
func ValidUserType(t string) bool {
	switch t {
	case UserTypeAluno, UserTypePersonal, UserTypeAcademia, UserTypeAdmin:
		return true
	}
	return false
}

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  *string   `json:"-" db:"password_hash"` // nil until a welcome/reset flow sets it
	GoogleID      *string   `json:"-" db:"google_id"`
	OIDCSubject   *string   `json:"-" db:"oidc_subject"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	UserType      string    `json:"user_type" db:"user_type"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`

	// GymID is the legacy single-tenant linkage; ActiveGymID is the tenant
	// selected for the current session and takes precedence over it.
	GymID       *uuid.UUID `json:"gym_id" db:"gym_id"`
	ActiveGymID *uuid.UUID `json:"active_gym_id" db:"active_gym_id"`

	// Reset token pair. Set and cleared together, never independently.
	PasswordResetToken   *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpires *time.Time `json:"-" db:"password_reset_expires"`

	LastLogin *time.Time `json:"last_login" db:"last_login"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// HasUsablePassword reports whether local-password login can even be
// attempted for this account.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
