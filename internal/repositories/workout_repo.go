package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gymcore/internal/models"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *models.Workout) error
	GetByID(ctx context.Context, gymID, id uuid.UUID) (*models.Workout, error)
	Update(ctx context.Context, workout *models.Workout) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error
	ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.Workout, error)
	ListByUser(ctx context.Context, gymID, userID uuid.UUID, limit, offset int) ([]*models.Workout, error)
}

type workoutRepo struct {
	db DB
}

func NewWorkoutRepository(db DB) WorkoutRepository {
	return &workoutRepo{db: db}
}

func (r *workoutRepo) Create(ctx context.Context, workout *models.Workout) error {
	query := `
		INSERT INTO workouts (id, gym_id, user_id, name, notes, scheduled_for, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, workout.ID, workout.GymID, workout.UserID, workout.Name, workout.Notes, workout.ScheduledFor)
	return err
}

func (r *workoutRepo) GetByID(ctx context.Context, gymID, id uuid.UUID) (*models.Workout, error) {
	workout := &models.Workout{}
	query := `
		SELECT id, gym_id, user_id, name, notes, scheduled_for, created_at, updated_at
		FROM workouts
		WHERE gym_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, gymID, id).Scan(
		&workout.ID, &workout.GymID, &workout.UserID, &workout.Name,
		&workout.Notes, &workout.ScheduledFor, &workout.CreatedAt, &workout.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (r *workoutRepo) Update(ctx context.Context, workout *models.Workout) error {
	query := `
		UPDATE workouts
		SET name = $1, notes = $2, scheduled_for = $3, updated_at = NOW()
		WHERE gym_id = $4 AND id = $5
	`
	_, err := r.db.Exec(ctx, query, workout.Name, workout.Notes, workout.ScheduledFor, workout.GymID, workout.ID)
	return err
}

func (r *workoutRepo) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	query := `DELETE FROM workouts WHERE gym_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, gymID, id)
	return err
}

func (r *workoutRepo) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.Workout, error) {
	query := `
		SELECT id, gym_id, user_id, name, notes, scheduled_for, created_at, updated_at
		FROM workouts
		WHERE gym_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

func (r *workoutRepo) ListByUser(ctx context.Context, gymID, userID uuid.UUID, limit, offset int) ([]*models.Workout, error) {
	query := `
		SELECT id, gym_id, user_id, name, notes, scheduled_for, created_at, updated_at
		FROM workouts
		WHERE gym_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, gymID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

func collectWorkouts(rows pgx.Rows) ([]*models.Workout, error) {
	var workouts []*models.Workout
	for rows.Next() {
		workout := &models.Workout{}
		if err := rows.Scan(
			&workout.ID, &workout.GymID, &workout.UserID, &workout.Name,
			&workout.Notes, &workout.ScheduledFor, &workout.CreatedAt, &workout.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	return workouts, rows.Err()
}
