package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/middleware"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
	"gymcore/internal/services"
)

// GymHandlers covers gym lifecycle, public invite validation, tenant
// switching and logo media.
type GymHandlers struct {
	gyms  *services.GymService
	media *services.MediaService
	audit *services.AuditService
}

func NewGymHandlers(gyms *services.GymService, media *services.MediaService, audit *services.AuditService) *GymHandlers {
	return &GymHandlers{gyms: gyms, media: media, audit: audit}
}

// ValidateInvite is the public invite-code check used by the signup form.
// Unknown and inactive codes both return 404.
func (h *GymHandlers) ValidateInvite(c echo.Context) error {
	gym, err := h.gyms.ValidateInvite(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrInviteInvalid) {
			return common.SendNotFoundError(c, "invite code")
		}
		return common.SendServerError(c, "failed to validate invite")
	}

	// Only what the signup form needs; never the full gym record.
	return c.JSON(http.StatusOK, map[string]string{
		"gymId": gym.ID.String(),
		"name":  gym.Name,
	})
}

type setActiveGymRequest struct {
	GymID string `json:"gymId"`
}

// SetActive persists the caller's tenant selection.
func (h *GymHandlers) SetActive(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.CurrentUser(c)
	if user == nil {
		return common.SendUnauthenticated(c)
	}

	var req setActiveGymRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	gymID, err := common.ValidateUUID(req.GymID, "gymId")
	if err != nil {
		return common.SendValidationError(c, "gymId", "must be a valid UUID")
	}

	if err := h.gyms.SetActive(ctx, user, gymID); err != nil {
		if errors.Is(err, services.ErrGymNotAvailable) {
			return common.SendForbidden(c)
		}
		return common.SendServerError(c, "failed to set active gym")
	}

	h.audit.Record(ctx, models.AuditTenantSwitch, &gymID, &user.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, map[string]string{"activeGymId": gymID.String()})
}

// Create opens a new gym owned by the calling admin.
func (h *GymHandlers) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return common.SendUnauthenticated(c)
	}

	var req services.GymRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	gym, err := h.gyms.Create(c.Request().Context(), user.ID, req)
	if err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusCreated, gym)
}

// Get returns one gym.
func (h *GymHandlers) Get(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	gym, err := h.gyms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "gym")
		}
		return common.SendServerError(c, "failed to load gym")
	}
	return c.JSON(http.StatusOK, gym)
}

// List returns gyms, paginated.
func (h *GymHandlers) List(c echo.Context) error {
	limit, offset := paginationParams(c)
	gyms, err := h.gyms.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list gyms")
	}
	return c.JSON(http.StatusOK, gyms)
}

// Update edits gym fields and invalidates the invite cache.
func (h *GymHandlers) Update(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	var req services.GymRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	gym, err := h.gyms.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "gym")
		}
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusOK, gym)
}

// Delete removes a gym.
func (h *GymHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.gyms.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "gym")
		}
		return common.SendServerError(c, "failed to delete gym")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadLogo stores a gym logo in object storage and records its key.
func (h *GymHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	gym, err := h.gyms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "gym")
		}
		return common.SendServerError(c, "failed to load gym")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "logo", "file is required")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "failed to read upload")
	}
	defer src.Close()

	key, err := h.media.UploadGymLogo(ctx, gym.ID, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return common.SendServerError(c, "failed to store logo")
	}

	if err := h.gyms.SetLogoKey(ctx, gym.ID, key); err != nil {
		return common.SendServerError(c, "failed to record logo")
	}
	return c.JSON(http.StatusOK, map[string]string{"logoKey": key})
}

// LogoURL hands out a presigned download link for the gym's logo.
func (h *GymHandlers) LogoURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	gym, err := h.gyms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "gym")
		}
		return common.SendServerError(c, "failed to load gym")
	}
	if gym.LogoKey == nil {
		return common.SendNotFoundError(c, "logo")
	}

	url, err := h.media.PresignedLogoURL(ctx, *gym.LogoKey, 15*time.Minute)
	if err != nil {
		return common.SendServerError(c, "failed to presign logo url")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
