package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

// AuditService records security-relevant events. Recording is best-effort:
// a failed insert is logged and never fails the request that triggered it.
type AuditService struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditService(auditRepo repositories.AuditLogsRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) Record(ctx context.Context, action string, gymID, userID *uuid.UUID, details *string, ip string) {
	entry := &models.AuditLog{
		ID:        uuid.New(),
		GymID:     gymID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		CreatedAt: time.Now(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record audit event %s: %v", action, err)
	}
}

func (s *AuditService) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.auditRepo.ListByGym(ctx, gymID, limit, offset)
}
