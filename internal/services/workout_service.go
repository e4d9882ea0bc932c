package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

type WorkoutRequest struct {
	Name         string     `json:"name"`
	Notes        *string    `json:"notes"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

// WorkoutService is tenant-scoped CRUD over workouts. Every call carries the
// resolved gym id so records never cross tenants.
type WorkoutService struct {
	workoutRepo repositories.WorkoutRepository
}

func NewWorkoutService(workoutRepo repositories.WorkoutRepository) *WorkoutService {
	return &WorkoutService{workoutRepo: workoutRepo}
}

func (s *WorkoutService) Create(ctx context.Context, gymID, userID uuid.UUID, req WorkoutRequest) (*models.Workout, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}

	now := time.Now()
	workout := &models.Workout{
		ID:           uuid.New(),
		GymID:        gymID,
		UserID:       userID,
		Name:         req.Name,
		Notes:        req.Notes,
		ScheduledFor: req.ScheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) GetByID(ctx context.Context, gymID, id uuid.UUID) (*models.Workout, error) {
	return s.workoutRepo.GetByID(ctx, gymID, id)
}

func (s *WorkoutService) Update(ctx context.Context, gymID, id uuid.UUID, req WorkoutRequest) (*models.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, gymID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		workout.Name = req.Name
	}
	if req.Notes != nil {
		workout.Notes = req.Notes
	}
	if req.ScheduledFor != nil {
		workout.ScheduledFor = req.ScheduledFor
	}
	workout.UpdatedAt = time.Now()

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	return s.workoutRepo.Delete(ctx, gymID, id)
}

func (s *WorkoutService) ListByGym(ctx context.Context, gymID uuid.UUID, limit, offset int) ([]*models.Workout, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.workoutRepo.ListByGym(ctx, gymID, limit, offset)
}

func (s *WorkoutService) ListByUser(ctx context.Context, gymID, userID uuid.UUID, limit, offset int) ([]*models.Workout, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.workoutRepo.ListByUser(ctx, gymID, userID, limit, offset)
}
