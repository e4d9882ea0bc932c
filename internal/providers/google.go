package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

// GoogleProvider resolves a Google OAuth2 profile assertion. Resolution
// order: existing google_id link, then account linking by email, then a
// new least-privileged "aluno" record.
type GoogleProvider struct {
	userRepo repositories.UserRepository
	oauth    *oauth2.Config
}

func NewGoogleProvider(userRepo repositories.UserRepository, clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		userRepo: userRepo,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

// AuthCodeURL returns the consent-screen URL for the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for tokens, fetches the profile
// and resolves it to a user record.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Resolution, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(p.oauth.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("google userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("google userinfo fetch: %w", err)
	}

	assertion := GoogleAssertion{
		Subject:    info.Id,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}
	if info.Email != "" {
		assertion.Emails = []string{info.Email}
	}

	return p.Resolve(ctx, assertion)
}

func (p *GoogleProvider) Resolve(ctx context.Context, a Assertion) (*Resolution, error) {
	profile, ok := a.(GoogleAssertion)
	if !ok {
		return nil, ErrUnsupportedAssertion
	}

	user, err := p.userRepo.GetByGoogleID(ctx, profile.Subject)
	if err == nil {
		p.touchLastLogin(ctx, user.ID)
		return &Resolution{User: user}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if len(profile.Emails) == 0 || profile.Emails[0] == "" {
		return nil, ErrNoEmailInProfile
	}
	email := profile.Emails[0]

	// Link the external id onto an existing local account when the emails
	// match.
	existing, err := p.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if err := p.userRepo.LinkGoogleID(ctx, existing.ID, profile.Subject); err != nil {
			return nil, err
		}
		existing.GoogleID = &profile.Subject
		p.touchLastLogin(ctx, existing.ID)
		return &Resolution{User: existing}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	googleID := profile.Subject
	now := time.Now()
	user = &models.User{
		ID:            uuid.New(),
		Email:         email,
		GoogleID:      &googleID,
		FirstName:     profile.GivenName,
		LastName:      profile.FamilyName,
		UserType:      models.UserTypeAluno,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	p.touchLastLogin(ctx, user.ID)
	return &Resolution{User: user}, nil
}

func (p *GoogleProvider) touchLastLogin(ctx context.Context, id uuid.UUID) {
	if err := p.userRepo.UpdateLastLogin(ctx, id); err != nil {
		log.Printf("Failed to update last login for user %s: %v", id, err)
	}
}
