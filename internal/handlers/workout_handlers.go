package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/middleware"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
	"gymcore/internal/services"
)

// WorkoutHandlers is tenant-scoped workout CRUD. All routes run behind
// SessionAuth and TenantScope, so the gym id is always on the context.
type WorkoutHandlers struct {
	workouts *services.WorkoutService
}

func NewWorkoutHandlers(workouts *services.WorkoutService) *WorkoutHandlers {
	return &WorkoutHandlers{workouts: workouts}
}

// Create adds a workout in the resolved gym.
func (h *WorkoutHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return common.SendUnauthenticated(c)
	}

	var req services.WorkoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	workout, err := h.workouts.Create(ctx, gymID, user.ID, req)
	if err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusCreated, workout)
}

// Get returns one workout in the resolved gym.
func (h *WorkoutHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	workout, err := h.workouts.GetByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "workout")
		}
		return common.SendServerError(c, "failed to load workout")
	}
	return c.JSON(http.StatusOK, workout)
}

// List returns the gym's workouts. Members only see their own; staff and
// admins see the whole gym.
func (h *WorkoutHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return common.SendUnauthenticated(c)
	}

	limit, offset := paginationParams(c)

	var (
		workouts []*models.Workout
		err      error
	)
	if user.UserType == models.UserTypeAluno {
		workouts, err = h.workouts.ListByUser(ctx, gymID, user.ID, limit, offset)
	} else {
		workouts, err = h.workouts.ListByGym(ctx, gymID, limit, offset)
	}
	if err != nil {
		return common.SendServerError(c, "failed to list workouts")
	}
	return c.JSON(http.StatusOK, workouts)
}

// Update edits a workout in the resolved gym.
func (h *WorkoutHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	var req services.WorkoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	workout, err := h.workouts.Update(ctx, gymID, id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "workout")
		}
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusOK, workout)
}

// Delete removes a workout in the resolved gym.
func (h *WorkoutHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.workouts.Delete(ctx, gymID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "workout")
		}
		return common.SendServerError(c, "failed to delete workout")
	}
	return c.NoContent(http.StatusNoContent)
}
