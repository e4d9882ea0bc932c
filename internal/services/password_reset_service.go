package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gymcore/internal/common"
	"gymcore/internal/repositories"
)

// ErrResetTokenInvalid covers every reset failure mode: unknown token,
// expired token, already-consumed token. Callers must not distinguish them.
var ErrResetTokenInvalid = errors.New("reset token expired or invalid")

const resetTokenTTL = time.Hour

// PasswordResetService issues single-use reset tokens and consumes them
// atomically. Requesting a reset for an unknown email succeeds silently so
// the endpoint cannot be used to enumerate accounts.
type PasswordResetService struct {
	userRepo repositories.UserRepository
	mail     MailPublisher
}

func NewPasswordResetService(userRepo repositories.UserRepository, mail MailPublisher) *PasswordResetService {
	return &PasswordResetService{userRepo: userRepo, mail: mail}
}

func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	if err := common.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	if s.mail != nil {
		err := s.mail.Publish(ctx, MailMessage{
			To:       user.Email,
			Subject:  "GymCore password reset",
			Template: MailTemplateReset,
			Data: map[string]string{
				"FirstName": user.FirstName,
				"Token":     token,
			},
		})
		if err != nil {
			log.Printf("Failed to queue reset mail for user %s: %v", user.ID, err)
		}
	}
	return nil
}

// Reset exchanges a valid token for a new password. The token and its expiry
// are cleared in the same statement that writes the hash, so a token can
// only ever be redeemed once.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}
	if err := common.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.PasswordResetExpires == nil || user.PasswordResetExpires.Before(time.Now()) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	ok, err := s.userRepo.ConsumePasswordResetToken(ctx, user.ID, token, string(hash))
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetTokenInvalid
	}
	return nil
}

// IssueToken creates a reset token without sending mail. Used by admin
// invites so a password-less account can set its first credential.
func (s *PasswordResetService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetPasswordResetToken(ctx, userID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %v", err)
	}
	return hex.EncodeToString(buf), nil
}
