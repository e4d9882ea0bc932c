package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gymcore/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	UpsertByOIDCSubject(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.User, error)
	CountByUserType(ctx context.Context, userType string) (int, error)
	CountMembers(ctx context.Context, gymID uuid.UUID) (int, error)

	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetActiveGym(ctx context.Context, id, gymID uuid.UUID) error
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error

	SetPasswordResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	// ConsumePasswordResetToken sets the new hash and clears both reset
	// fields in one guarded UPDATE. It reports false when the token no
	// longer matches or has expired, so a consumed token can never
	// authorize a second change.
	ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, token, newHash string) (bool, error)
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, google_id, oidc_subject, first_name, last_name, user_type, email_verified, gym_id, active_gym_id, password_reset_token, password_reset_expires, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.GoogleID, &user.OIDCSubject,
		&user.FirstName, &user.LastName, &user.UserType, &user.EmailVerified,
		&user.GymID, &user.ActiveGymID,
		&user.PasswordResetToken, &user.PasswordResetExpires,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, google_id, oidc_subject, first_name, last_name, user_type, email_verified, gym_id, active_gym_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.GoogleID, user.OIDCSubject,
		user.FirstName, user.LastName, user.UserType, user.EmailVerified,
		user.GymID, user.ActiveGymID,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE google_id = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, googleID))
}

// UpsertByOIDCSubject creates or updates the user keyed by the verified
// OIDC subject and returns the stored record.
func (r *userRepo) UpsertByOIDCSubject(ctx context.Context, user *models.User) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (id, email, oidc_subject, first_name, last_name, user_type, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (oidc_subject) DO UPDATE
		SET email = EXCLUDED.email,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING %s
	`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.OIDCSubject,
		user.FirstName, user.LastName, user.UserType, user.EmailVerified,
	))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, user_type = $4, email_verified = $5, gym_id = $6, active_gym_id = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query,
		user.Email, user.FirstName, user.LastName, user.UserType,
		user.EmailVerified, user.GymID, user.ActiveGymID, user.ID,
	)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, userColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepo) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE gym_id = $1 OR active_gym_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userColumns)
	rows, err := r.db.Query(ctx, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.GoogleID, &user.OIDCSubject,
			&user.FirstName, &user.LastName, &user.UserType, &user.EmailVerified,
			&user.GymID, &user.ActiveGymID,
			&user.PasswordResetToken, &user.PasswordResetExpires,
			&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByUserType(ctx context.Context, userType string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE user_type = $1`, userType).Scan(&count)
	return count, err
}

func (r *userRepo) CountMembers(ctx context.Context, gymID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE user_type = 'aluno' AND (gym_id = $1 OR active_gym_id = $1)`
	err := r.db.QueryRow(ctx, query, gymID).Scan(&count)
	return count, err
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) SetActiveGym(ctx context.Context, id, gymID uuid.UUID) error {
	query := `UPDATE users SET active_gym_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, gymID, id)
	return err
}

func (r *userRepo) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	query := `UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, googleID, id)
	return err
}

func (r *userRepo) SetPasswordResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	query := `UPDATE users SET password_reset_token = $1, password_reset_expires = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.Exec(ctx, query, token, expires, id)
	return err
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE password_reset_token = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *userRepo) ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, token, newHash string) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $1, password_reset_token = NULL, password_reset_expires = NULL, updated_at = NOW()
		WHERE id = $2 AND password_reset_token = $3 AND password_reset_expires > NOW()
	`
	tag, err := r.db.Exec(ctx, query, newHash, id, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = NOW()
		WHERE password_reset_token IS NOT NULL AND password_reset_expires <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
