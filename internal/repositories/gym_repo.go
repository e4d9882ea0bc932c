package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gymcore/internal/models"
)

type GymRepository interface {
	Create(ctx context.Context, gym *models.Gym) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Gym, error)
	Update(ctx context.Context, gym *models.Gym) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Gym, error)
	// ListByAdmin returns the gyms an admin user is associated with via the
	// gym_admins membership table.
	ListByAdmin(ctx context.Context, userID uuid.UUID) ([]*models.Gym, error)
	AddAdmin(ctx context.Context, gymID, userID uuid.UUID) error
	RemoveAdmin(ctx context.Context, gymID, userID uuid.UUID) error
}

type gymRepo struct {
	db DB
}

func NewGymRepository(db DB) GymRepository {
	return &gymRepo{db: db}
}

const gymColumns = `id, name, invite_code, is_active, max_members, logo_key, created_at, updated_at`

func scanGym(row pgx.Row) (*models.Gym, error) {
	gym := &models.Gym{}
	err := row.Scan(&gym.ID, &gym.Name, &gym.InviteCode, &gym.IsActive, &gym.MaxMembers, &gym.LogoKey, &gym.CreatedAt, &gym.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return gym, nil
}

func (r *gymRepo) Create(ctx context.Context, gym *models.Gym) error {
	query := `
		INSERT INTO gyms (id, name, invite_code, is_active, max_members, logo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, gym.ID, gym.Name, gym.InviteCode, gym.IsActive, gym.MaxMembers, gym.LogoKey)
	return err
}

func (r *gymRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	query := `SELECT id, name, invite_code, is_active, max_members, logo_key, created_at, updated_at FROM gyms WHERE id = $1`
	return scanGym(r.db.QueryRow(ctx, query, id))
}

func (r *gymRepo) GetByInviteCode(ctx context.Context, code string) (*models.Gym, error) {
	query := `SELECT id, name, invite_code, is_active, max_members, logo_key, created_at, updated_at FROM gyms WHERE invite_code = $1`
	return scanGym(r.db.QueryRow(ctx, query, code))
}

func (r *gymRepo) Update(ctx context.Context, gym *models.Gym) error {
	query := `
		UPDATE gyms
		SET name = $1, invite_code = $2, is_active = $3, max_members = $4, logo_key = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, gym.Name, gym.InviteCode, gym.IsActive, gym.MaxMembers, gym.LogoKey, gym.ID)
	return err
}

func (r *gymRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM gyms WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *gymRepo) List(ctx context.Context, limit, offset int) ([]*models.Gym, error) {
	query := `
		SELECT id, name, invite_code, is_active, max_members, logo_key, created_at, updated_at
		FROM gyms
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGyms(rows)
}

func (r *gymRepo) ListByAdmin(ctx context.Context, userID uuid.UUID) ([]*models.Gym, error) {
	query := `
		SELECT g.id, g.name, g.invite_code, g.is_active, g.max_members, g.logo_key, g.created_at, g.updated_at
		FROM gyms g
		JOIN gym_admins ga ON ga.gym_id = g.id
		WHERE ga.user_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGyms(rows)
}

func collectGyms(rows pgx.Rows) ([]*models.Gym, error) {
	var gyms []*models.Gym
	for rows.Next() {
		gym := &models.Gym{}
		if err := rows.Scan(&gym.ID, &gym.Name, &gym.InviteCode, &gym.IsActive, &gym.MaxMembers, &gym.LogoKey, &gym.CreatedAt, &gym.UpdatedAt); err != nil {
			return nil, err
		}
		gyms = append(gyms, gym)
	}
	return gyms, rows.Err()
}

func (r *gymRepo) AddAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	query := `
		INSERT INTO gym_admins (gym_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (gym_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, gymID, userID)
	return err
}

func (r *gymRepo) RemoveAdmin(ctx context.Context, gymID, userID uuid.UUID) error {
	query := `DELETE FROM gym_admins WHERE gym_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, gymID, userID)
	return err
}
