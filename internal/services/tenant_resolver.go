package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

var (
	// ErrTenantUnresolved means no precedence rule produced a gym id.
	ErrTenantUnresolved = errors.New("tenant could not be resolved")
	// ErrTenantSelectionRequired means the admin belongs to several gyms and
	// must pick one before tenant-scoped routes work.
	ErrTenantSelectionRequired = errors.New("tenant selection required")
)

// TenantResolver computes the operative gym for a request. Precedence:
//
//  1. explicit gymId query parameter (hub routes only)
//  2. the user's persisted active gym
//  3. the legacy single-gym membership column
//  4. admin membership lookup: zero falls through, one is auto-selected
//     and persisted, several require an explicit selection
//  5. gym-role accounts predating multi-tenancy, where the account id
//     doubles as the gym id
type TenantResolver struct {
	userRepo repositories.UserRepository
	gymRepo  repositories.GymRepository
}

func NewTenantResolver(userRepo repositories.UserRepository, gymRepo repositories.GymRepository) *TenantResolver {
	return &TenantResolver{userRepo: userRepo, gymRepo: gymRepo}
}

func (r *TenantResolver) Resolve(ctx context.Context, user *models.User, explicitGymID *uuid.UUID) (uuid.UUID, error) {
	if explicitGymID != nil && *explicitGymID != uuid.Nil {
		return *explicitGymID, nil
	}

	if user.ActiveGymID != nil && *user.ActiveGymID != uuid.Nil {
		return *user.ActiveGymID, nil
	}

	if user.GymID != nil && *user.GymID != uuid.Nil {
		return *user.GymID, nil
	}

	if user.UserType == models.UserTypeAdmin {
		gyms, err := r.gymRepo.ListByAdmin(ctx, user.ID)
		if err != nil {
			return uuid.Nil, err
		}
		switch len(gyms) {
		case 0:
			// No memberships yet: fall through to the account-id rule.
		case 1:
			if err := r.userRepo.SetActiveGym(ctx, user.ID, gyms[0].ID); err != nil {
				log.Printf("Failed to persist active gym for admin %s: %v", user.ID, err)
			}
			return gyms[0].ID, nil
		default:
			return uuid.Nil, ErrTenantSelectionRequired
		}
	}

	if user.UserType == models.UserTypeAcademia || user.UserType == models.UserTypeAdmin {
		return user.ID, nil
	}

	return uuid.Nil, ErrTenantUnresolved
}

// AvailableTenants lists every gym id the user may legitimately select as
// active. Used to validate explicit selections.
func (r *TenantResolver) AvailableTenants(ctx context.Context, user *models.User) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if user.GymID != nil {
		add(*user.GymID)
	}
	if user.UserType == models.UserTypeAcademia || user.UserType == models.UserTypeAdmin {
		add(user.ID)
	}
	if user.UserType == models.UserTypeAdmin {
		gyms, err := r.gymRepo.ListByAdmin(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, g := range gyms {
			add(g.ID)
		}
	}
	return ids, nil
}
