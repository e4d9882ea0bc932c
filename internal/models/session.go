package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-held, cookie-referenced record. The authenticated
// user and the break-glass admin flag are orthogonal: a single browser
// session can carry either, both, or neither, and each gate consults only
// the part it relies on.
type Session struct {
	ID                 string     `json:"id"`
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	Provider           string     `json:"provider,omitempty"`
	AdminAuthenticated bool       `json:"admin_authenticated"`

	// OIDC-established sessions track provider token expiry and a refresh
	// token for silent renewal. Renewal is not implemented; expiry is a
	// hard failure.
	OIDCExpiresAt    *int64  `json:"oidc_expires_at,omitempty"`
	OIDCRefreshToken *string `json:"oidc_refresh_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
