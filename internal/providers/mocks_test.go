package providers

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
