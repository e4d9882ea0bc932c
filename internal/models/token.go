package models

import "time"

// TokenResponse is the bearer credential returned at login. The token is
// stateless and short-lived; it is never stored server-side and cannot be
// revoked before expiry.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      string    `json:"user_id"`
	IssuedAt    time.Time `json:"issued_at"`
}
