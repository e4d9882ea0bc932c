package providers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

// OIDCProvider resolves a platform OIDC identity from a signed ID token.
// The token is verified against the provider's JWKS, then the user is
// upserted keyed by the token subject. Provider token expiry and the
// refresh token are handed back for the session to carry; silent renewal
// is not implemented.
type OIDCProvider struct {
	userRepo repositories.UserRepository
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

func NewOIDCProvider(userRepo repositories.UserRepository, jwksURL, issuer, audience string) (*OIDCProvider, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("OIDC JWKS refresh error: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load OIDC JWKS from %s: %w", jwksURL, err)
	}

	return &OIDCProvider{
		userRepo: userRepo,
		jwks:     jwks,
		issuer:   issuer,
		audience: audience,
	}, nil
}

func (p *OIDCProvider) Name() string { return "oidc" }

// Authenticate verifies a raw ID token and resolves its claims.
func (p *OIDCProvider) Authenticate(ctx context.Context, rawIDToken, refreshToken string) (*Resolution, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(rawIDToken, claims, p.jwks.Keyfunc,
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidCredentials
	}

	assertion := OIDCAssertion{
		Subject:      sub,
		RefreshToken: refreshToken,
	}
	if email, ok := claims["email"].(string); ok {
		assertion.Email = email
	}
	if first, ok := claims["first_name"].(string); ok {
		assertion.FirstName = first
	}
	if last, ok := claims["last_name"].(string); ok {
		assertion.LastName = last
	}
	if exp, ok := claims["exp"].(float64); ok {
		assertion.ExpiresAt = int64(exp)
	}

	return p.Resolve(ctx, assertion)
}

func (p *OIDCProvider) Resolve(ctx context.Context, a Assertion) (*Resolution, error) {
	claims, ok := a.(OIDCAssertion)
	if !ok {
		return nil, ErrUnsupportedAssertion
	}

	subject := claims.Subject
	now := time.Now()
	user, err := p.userRepo.UpsertByOIDCSubject(ctx, &models.User{
		ID:            uuid.New(),
		Email:         claims.Email,
		OIDCSubject:   &subject,
		FirstName:     claims.FirstName,
		LastName:      claims.LastName,
		UserType:      models.UserTypeAluno,
		EmailVerified: claims.Email != "",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := p.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for user %s: %v", user.ID, err)
	}

	res := &Resolution{User: user}
	if claims.ExpiresAt > 0 {
		exp := claims.ExpiresAt
		res.OIDCExpiresAt = &exp
	}
	if claims.RefreshToken != "" {
		rt := claims.RefreshToken
		res.OIDCRefreshToken = &rt
	}
	return res, nil
}

// Renew is the known gap: provider tokens are never silently renewed.
func (p *OIDCProvider) Renew(ctx context.Context, refreshToken string) error {
	return ErrRenewalUnsupported
}
