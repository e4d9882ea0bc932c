// Package providers resolves external credential presentations into
// internal user records. Local password, Google OAuth2 and platform OIDC
// all converge on the same output contract so downstream authorization
// logic is provider-agnostic.
package providers

import (
	"context"
	"errors"

	"gymcore/internal/models"
)

var (
	// ErrInvalidCredentials covers wrong email, wrong password and wrong
	// role alike; callers must not distinguish them to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoPasswordSet means the account exists but never completed the
	// password-setup flow.
	ErrNoPasswordSet = errors.New("account has no password set")
	// ErrNoEmailInProfile means the external profile carried no email and
	// no existing link was found.
	ErrNoEmailInProfile = errors.New("external profile has no email")
	// ErrRenewalUnsupported is the known OIDC gap: expired provider tokens
	// are a hard failure, never silently renewed.
	ErrRenewalUnsupported = errors.New("oidc token renewal not implemented")
	// ErrUnsupportedAssertion is a wiring error: the assertion type does
	// not belong to this provider.
	ErrUnsupportedAssertion = errors.New("assertion type not handled by this provider")
)

// Assertion is an external credential presentation. Each provider handles
// exactly one concrete assertion type.
type Assertion interface {
	assertion()
}

type PasswordAssertion struct {
	Email        string
	Password     string
	ExpectedRole string
}

func (PasswordAssertion) assertion() {}

type GoogleAssertion struct {
	Subject    string
	GivenName  string
	FamilyName string
	Emails     []string
}

func (GoogleAssertion) assertion() {}

type OIDCAssertion struct {
	Subject      string
	Email        string
	FirstName    string
	LastName     string
	ExpiresAt    int64
	RefreshToken string
}

func (OIDCAssertion) assertion() {}

// Resolution is the uniform provider output: the resolved user plus any
// provider token metadata the session must carry.
type Resolution struct {
	User             *models.User
	OIDCExpiresAt    *int64
	OIDCRefreshToken *string
}

// Provider turns an assertion into a resolved user record or a failure.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, a Assertion) (*Resolution, error)
}
