package providers

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"gymcore/internal/repositories"
)

// LocalProvider authenticates email+password+expected-role against the
// credential store. Role selection is part of the login form, so a role
// mismatch fails exactly like a wrong password.
type LocalProvider struct {
	userRepo repositories.UserRepository
}

func NewLocalProvider(userRepo repositories.UserRepository) *LocalProvider {
	return &LocalProvider{userRepo: userRepo}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) Resolve(ctx context.Context, a Assertion) (*Resolution, error) {
	cred, ok := a.(PasswordAssertion)
	if !ok {
		return nil, ErrUnsupportedAssertion
	}

	user, err := p.userRepo.GetByEmail(ctx, cred.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.UserType != cred.ExpectedRole {
		return nil, ErrInvalidCredentials
	}

	// Never reach the hash comparison for accounts without a credential.
	if !user.HasUsablePassword() {
		return nil, ErrNoPasswordSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(cred.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := p.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for user %s: %v", user.ID, err)
	}

	return &Resolution{User: user}, nil
}
