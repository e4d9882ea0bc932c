package repositories

import (
	"context"

	"github.com/google/uuid"

	"gymcore/internal/models"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepository(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, gym_id, user_id, action, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.GymID, entry.UserID, entry.Action, entry.Details, entry.IPAddress)
	return err
}

func (r *auditLogsRepo) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, gym_id, user_id, action, details, ip_address, created_at
		FROM audit_logs
		WHERE gym_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		if err := rows.Scan(&entry.ID, &entry.GymID, &entry.UserID, &entry.Action, &entry.Details, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
