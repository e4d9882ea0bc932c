package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/services"
)

// UserHandlers exposes tenant-scoped user listings to gym staff.
type UserHandlers struct {
	users *services.UserAdminService
	audit *services.AuditService
}

func NewUserHandlers(users *services.UserAdminService, audit *services.AuditService) *UserHandlers {
	return &UserHandlers{users: users, audit: audit}
}

// ListMembers returns the members of the resolved gym.
func (h *UserHandlers) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}

	limit, offset := paginationParams(c)
	users, err := h.users.ListByGym(ctx, gymID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list members")
	}
	return c.JSON(http.StatusOK, users)
}

// InviteMember creates a password-less account in the resolved gym and
// mails a setup token.
func (h *UserHandlers) InviteMember(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}

	var req services.InviteUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	user, err := h.users.Invite(ctx, &gymID, req)
	if err != nil {
		if err == services.ErrEmailTaken {
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Email is already registered")
		}
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// Profile returns the bearer-token caller's own record. Runs behind
// BearerAuth, which puts the token subject on the request context.
func (h *UserHandlers) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthenticated(c)
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return common.SendUnauthenticated(c)
	}
	return c.JSON(http.StatusOK, user)
}

// AuditLog returns the gym's security event trail.
func (h *UserHandlers) AuditLog(c echo.Context) error {
	ctx := c.Request().Context()

	gymID, ok := common.GetGymIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved, "No gym in scope")
	}

	limit, offset := paginationParams(c)
	entries, err := h.audit.ListByGym(ctx, gymID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list audit entries")
	}
	return c.JSON(http.StatusOK, entries)
}
