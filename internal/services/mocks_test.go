package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gymcore/internal/models"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpsertByOIDCSubject(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, gymID, limit, offset)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) CountByUserType(ctx context.Context, userType string) (int, error) {
	args := m.Called(ctx, userType)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) CountMembers(ctx context.Context, gymID uuid.UUID) (int, error) {
	args := m.Called(ctx, gymID)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) SetActiveGym(ctx context.Context, id, gymID uuid.UUID) error {
	args := m.Called(ctx, id, gymID)
	return args.Error(0)
}

func (m *mockUserRepo) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	args := m.Called(ctx, id, googleID)
	return args.Error(0)
}

func (m *mockUserRepo) SetPasswordResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	args := m.Called(ctx, id, token, expires)
	return args.Error(0)
}

func (m *mockUserRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, token, newHash string) (bool, error) {
	args := m.Called(ctx, id, token, newHash)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockGymRepo struct {
	mock.Mock
}

func (m *mockGymRepo) Create(ctx context.Context, gym *models.Gym) error {
	args := m.Called(ctx, gym)
	return args.Error(0)
}

func (m *mockGymRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Gym), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGymRepo) GetByInviteCode(ctx context.Context, code string) (*models.Gym, error) {
	args := m.Called(ctx, code)
	if g := args.Get(0); g != nil {
		return g.(*models.Gym), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGymRepo) Update(ctx context.Context, gym *models.Gym) error {
	args := m.Called(ctx, gym)
	return args.Error(0)
}

func (m *mockGymRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGymRepo) List(ctx context.Context, limit, offset int) ([]*models.Gym, error) {
	args := m.Called(ctx, limit, offset)
	if g := args.Get(0); g != nil {
		return g.([]*models.Gym), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGymRepo) ListByAdmin(ctx context.Context, userID uuid.UUID) ([]*models.Gym, error) {
	args := m.Called(ctx, userID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Gym), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGymRepo) AddAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	args := m.Called(ctx, gymID, userID)
	return args.Error(0)
}

func (m *mockGymRepo) RemoveAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	args := m.Called(ctx, gymID, userID)
	return args.Error(0)
}

type mockMailPublisher struct {
	mock.Mock
}

func (m *mockMailPublisher) Publish(ctx context.Context, msg MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// mockCache is an in-memory stand-in for the Redis cache service.
type mockCache struct {
	sessions map[string]string
	invites  map[string]*models.Gym
	strings  map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{
		sessions: make(map[string]string),
		invites:  make(map[string]*models.Gym),
		strings:  make(map[string]string),
	}
}

func (c *mockCache) SetSession(ctx context.Context, sessionID, data string, ttl time.Duration) error {
	c.sessions[sessionID] = data
	return nil
}

func (c *mockCache) GetSession(ctx context.Context, sessionID string) (string, error) {
	return c.sessions[sessionID], nil
}

func (c *mockCache) DeleteSession(ctx context.Context, sessionID string) error {
	delete(c.sessions, sessionID)
	return nil
}

func (c *mockCache) TouchSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return nil
}

func (c *mockCache) GetGymByInvite(ctx context.Context, code string) (*models.Gym, error) {
	return c.invites[code], nil
}

func (c *mockCache) SetGymByInvite(ctx context.Context, gym *models.Gym, ttl time.Duration) error {
	c.invites[gym.InviteCode] = gym
	return nil
}

func (c *mockCache) DeleteGymInvite(ctx context.Context, code string) error {
	delete(c.invites, code)
	return nil
}

func (c *mockCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}

func (c *mockCache) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.strings[key] = value
	return nil
}

func (c *mockCache) GetString(ctx context.Context, key string) (string, error) {
	return c.strings[key], nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	delete(c.strings, key)
	return nil
}

func (c *mockCache) Ping(ctx context.Context) error { return nil }
