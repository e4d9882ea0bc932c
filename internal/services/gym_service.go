package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"

	"gymcore/internal/caching"
	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

var ErrGymNotAvailable = errors.New("gym is not among the caller's available tenants")

const (
	inviteCodeLength = 8
	inviteCacheTTL   = 10 * time.Minute
)

// GymService owns gym lifecycle, invite codes and active-tenant selection.
// Invite lookups are cache-aside: Redis first, database on miss.
type GymService struct {
	gymRepo  repositories.GymRepository
	userRepo repositories.UserRepository
	cache    caching.CacheService
	resolver *TenantResolver
}

func NewGymService(gymRepo repositories.GymRepository, userRepo repositories.UserRepository, cache caching.CacheService, resolver *TenantResolver) *GymService {
	return &GymService{gymRepo: gymRepo, userRepo: userRepo, cache: cache, resolver: resolver}
}

type GymRequest struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"maxMembers"`
	IsActive   *bool  `json:"isActive"`
}

func (s *GymService) Create(ctx context.Context, ownerID uuid.UUID, req GymRequest) (*models.Gym, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}

	code, err := s.newInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gym := &models.Gym{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		InviteCode: code,
		IsActive:   true,
		MaxMembers: req.MaxMembers,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.gymRepo.Create(ctx, gym); err != nil {
		return nil, err
	}
	if err := s.gymRepo.AddAdmin(ctx, gym.ID, ownerID); err != nil {
		return nil, err
	}
	return gym, nil
}

func (s *GymService) GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	return s.gymRepo.GetByID(ctx, id)
}

func (s *GymService) List(ctx context.Context, limit, offset int) ([]*models.Gym, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.gymRepo.List(ctx, limit, offset)
}

func (s *GymService) Update(ctx context.Context, id uuid.UUID, req GymRequest) (*models.Gym, error) {
	gym, err := s.gymRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		gym.Name = strings.TrimSpace(req.Name)
	}
	if req.MaxMembers > 0 {
		gym.MaxMembers = req.MaxMembers
	}
	if req.IsActive != nil {
		gym.IsActive = *req.IsActive
	}
	gym.UpdatedAt = time.Now()

	if err := s.gymRepo.Update(ctx, gym); err != nil {
		return nil, err
	}
	s.invalidateInvite(ctx, gym.InviteCode)
	return gym, nil
}

func (s *GymService) Delete(ctx context.Context, id uuid.UUID) error {
	gym, err := s.gymRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gymRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateInvite(ctx, gym.InviteCode)
	return nil
}

// ValidateInvite resolves an invite code to an active gym. Inactive gyms
// fail identically to unknown codes.
func (s *GymService) ValidateInvite(ctx context.Context, code string) (*models.Gym, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInviteInvalid
	}

	if gym, err := s.cache.GetGymByInvite(ctx, code); err == nil && gym != nil {
		if !gym.IsActive {
			return nil, ErrInviteInvalid
		}
		return gym, nil
	}

	gym, err := s.gymRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInviteInvalid
		}
		return nil, err
	}
	if !gym.IsActive {
		return nil, ErrInviteInvalid
	}

	if err := s.cache.SetGymByInvite(ctx, gym, inviteCacheTTL); err != nil {
		log.Printf("Failed to cache gym invite %s: %v", code, err)
	}
	return gym, nil
}

// SetActive persists the caller's tenant choice after validating it against
// the tenants that are actually theirs.
func (s *GymService) SetActive(ctx context.Context, user *models.User, gymID uuid.UUID) error {
	available, err := s.resolver.AvailableTenants(ctx, user)
	if err != nil {
		return err
	}
	for _, id := range available {
		if id == gymID {
			return s.userRepo.SetActiveGym(ctx, user.ID, gymID)
		}
	}
	return ErrGymNotAvailable
}

// SetLogoKey records the object-storage key of the gym's logo.
func (s *GymService) SetLogoKey(ctx context.Context, id uuid.UUID, key string) error {
	gym, err := s.gymRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	gym.LogoKey = &key
	gym.UpdatedAt = time.Now()
	return s.gymRepo.Update(ctx, gym)
}

func (s *GymService) AddAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	if _, err := s.gymRepo.GetByID(ctx, gymID); err != nil {
		return err
	}
	return s.gymRepo.AddAdmin(ctx, gymID, userID)
}

func (s *GymService) RemoveAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	return s.gymRepo.RemoveAdmin(ctx, gymID, userID)
}

// newInviteCode retries on the unlikely collision with an existing code.
func (s *GymService) newInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code := random.String(inviteCodeLength, random.Uppercase, random.Numeric)
		_, err := s.gymRepo.GetByInviteCode(ctx, code)
		if errors.Is(err, repositories.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to generate a unique invite code")
}

func (s *GymService) invalidateInvite(ctx context.Context, code string) {
	if err := s.cache.DeleteGymInvite(ctx, code); err != nil {
		log.Printf("Failed to invalidate invite cache for %s: %v", code, err)
	}
}
