package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

var (
	ErrEmailTaken    = errors.New("email is already registered")
	ErrInviteInvalid = errors.New("invite code is invalid or inactive")
	ErrGymFull       = errors.New("gym has reached its member limit")
)

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	UserType   string `json:"userType"`
	InviteCode string `json:"inviteCode"`
}

// RegistrationService creates local accounts. Member signups are gated on a
// valid invite code; the invite is checked before any user row is written.
type RegistrationService struct {
	userRepo repositories.UserRepository
	gymSvc   *GymService
	mail     MailPublisher
}

func NewRegistrationService(userRepo repositories.UserRepository, gymSvc *GymService, mail MailPublisher) *RegistrationService {
	return &RegistrationService{userRepo: userRepo, gymSvc: gymSvc, mail: mail}
}

func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return nil, err
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.FirstName, "firstName"); err != nil {
		return nil, err
	}
	if !models.ValidUserType(req.UserType) {
		return nil, fmt.Errorf("invalid userType %q", req.UserType)
	}

	var gym *models.Gym
	if req.UserType == models.UserTypeAluno {
		var err error
		gym, err = s.gymSvc.ValidateInvite(ctx, req.InviteCode)
		if err != nil {
			return nil, err
		}
		members, err := s.userRepo.CountMembers(ctx, gym.ID)
		if err != nil {
			return nil, err
		}
		if gym.MaxMembers > 0 && members >= gym.MaxMembers {
			return nil, ErrGymFull
		}
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	hashStr := string(hash)

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hashStr,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserType:     req.UserType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if gym != nil {
		gymID := gym.ID
		user.GymID = &gymID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendWelcome(ctx, user)
	return user, nil
}

func (s *RegistrationService) sendWelcome(ctx context.Context, user *models.User) {
	if s.mail == nil {
		return
	}
	err := s.mail.Publish(ctx, MailMessage{
		To:       user.Email,
		Subject:  "Welcome to GymCore",
		Template: MailTemplateWelcome,
		Data: map[string]string{
			"FirstName": user.FirstName,
		},
	})
	if err != nil {
		log.Printf("Failed to queue welcome mail for %s: %v", user.Email, err)
	}
}
