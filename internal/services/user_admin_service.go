package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

var (
	ErrLastAdmin  = errors.New("cannot delete the last admin account")
	ErrSelfDelete = errors.New("cannot delete your own account")
)

type InviteUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserType  string `json:"userType"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserType  string `json:"userType"`
}

// UserAdminService is the break-glass management surface over user records.
type UserAdminService struct {
	userRepo repositories.UserRepository
	resetSvc *PasswordResetService
	mail     MailPublisher
}

func NewUserAdminService(userRepo repositories.UserRepository, resetSvc *PasswordResetService, mail MailPublisher) *UserAdminService {
	return &UserAdminService{userRepo: userRepo, resetSvc: resetSvc, mail: mail}
}

func (s *UserAdminService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserAdminService) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.User, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.ListByGym(ctx, gymID, limit, offset)
}

func (s *UserAdminService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Invite creates a password-less account and mails a reset token so the
// invitee can set their first credential.
func (s *UserAdminService) Invite(ctx context.Context, gymID *uuid.UUID, req InviteUserRequest) (*models.User, error) {
	if err := common.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.FirstName, "firstName"); err != nil {
		return nil, err
	}
	if !models.ValidUserType(req.UserType) {
		return nil, fmt.Errorf("invalid userType %q", req.UserType)
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  req.UserType,
		GymID:     gymID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.resetSvc.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		err := s.mail.Publish(ctx, MailMessage{
			To:       user.Email,
			Subject:  "You have been invited to GymCore",
			Template: MailTemplateInvite,
			Data: map[string]string{
				"FirstName": user.FirstName,
				"Token":     token,
			},
		})
		if err != nil {
			log.Printf("Failed to queue invite mail for %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *UserAdminService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.UserType != "" {
		if !models.ValidUserType(req.UserType) {
			return nil, fmt.Errorf("invalid userType %q", req.UserType)
		}
		user.UserType = req.UserType
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user record. Two guards: an admin may not delete their
// own account, and the last remaining admin may never be deleted.
func (s *UserAdminService) Delete(ctx context.Context, actingAdminID, targetID uuid.UUID) error {
	if actingAdminID == targetID {
		return ErrSelfDelete
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.UserType == models.UserTypeAdmin {
		count, err := s.userRepo.CountByUserType(ctx, models.UserTypeAdmin)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}

	return s.userRepo.Delete(ctx, targetID)
}
