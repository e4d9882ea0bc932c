package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gymcore/internal/models"
)

// TokenClaims is the bearer token payload: {id, email, userType}.
type TokenClaims struct {
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the stateless HS256 bearer credential.
// Tokens are short-lived, never stored server-side and cannot be revoked
// before expiry.
type TokenService interface {
	Issue(user *models.User) (*models.TokenResponse, error)
	Validate(token string) (*TokenClaims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) Issue(user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	claims := TokenClaims{
		Email:    user.Email,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gymcore-auth",
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		UserID:      user.ID.String(),
		IssuedAt:    now,
	}, nil
}

func (s *tokenService) Validate(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	if claims, ok := parsed.Claims.(*TokenClaims); ok && parsed.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}
