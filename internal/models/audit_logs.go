package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth audit event actions.
const (
	AuditLoginSuccess     = "auth.login.success"
	AuditLoginFailure     = "auth.login.failure"
	AuditRegister         = "auth.register"
	AuditPasswordReset    = "auth.password_reset"
	AuditTenantSwitch     = "auth.tenant_switch"
	AuditBreakGlassLogin  = "admin.break_glass.login"
	AuditBreakGlassFailed = "admin.break_glass.failure"
	AuditUserDeleted      = "admin.user.deleted"
)

type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	GymID     *uuid.UUID `json:"gym_id" db:"gym_id"`
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`
	Action    string     `json:"action" db:"action"`
	Details   *string    `json:"details" db:"details"`
	IPAddress string     `json:"ip_address" db:"ip_address"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
