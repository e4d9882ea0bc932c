package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymcore/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 24*time.Hour)
	user := &models.User{ID: uuid.New(), Email: "a@x.com", UserType: models.UserTypePersonal}

	resp, err := svc.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int((24 * time.Hour).Seconds()), resp.ExpiresIn)

	claims, err := svc.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, models.UserTypePersonal, claims.UserType)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenService("secret-one", time.Hour)
	verifier := NewTokenService("secret-two", time.Hour)

	resp, err := issuer.Issue(&models.User{ID: uuid.New(), Email: "a@x.com", UserType: models.UserTypeAluno})
	require.NoError(t, err)

	_, err = verifier.Validate(resp.AccessToken)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	resp, err := svc.Issue(&models.User{ID: uuid.New(), Email: "a@x.com", UserType: models.UserTypeAluno})
	require.NoError(t, err)

	_, err = svc.Validate(resp.AccessToken)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	_, err := svc.Validate("not-a-jwt")
	assert.Error(t, err)
}
