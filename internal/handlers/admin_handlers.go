package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
	"gymcore/internal/services"
)

// AdminHandlers covers the break-glass surface: a fixed credential pair
// checked in-process flips a boolean on the session, and user management
// routes trust only that boolean.
type AdminHandlers struct {
	sessions      *services.SessionService
	users         *services.UserAdminService
	audit         *services.AuditService
	adminUsername string
	adminPassword string
}

func NewAdminHandlers(sessions *services.SessionService, users *services.UserAdminService, audit *services.AuditService, adminUsername, adminPassword string) *AdminHandlers {
	return &AdminHandlers{
		sessions:      sessions,
		users:         users,
		audit:         audit,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the shared admin credential and sets the session flag. The
// user-identity part of the session, if any, is left untouched.
func (h *AdminHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	if h.adminPassword == "" {
		return common.SendError(c, http.StatusServiceUnavailable, common.CodeServerError, "Admin access is not configured")
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUsername)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) == 1
	if !userMatch || !passMatch {
		h.audit.Record(ctx, models.AuditBreakGlassFailed, nil, nil, nil, c.RealIP())
		return common.SendInvalidCredentials(c)
	}

	sess, err := h.sessions.GetOrNew(c)
	if err != nil {
		return common.SendServerError(c, "session store unavailable")
	}
	sess.AdminAuthenticated = true
	if err := h.sessions.Save(c, sess); err != nil {
		return common.SendServerError(c, "failed to establish session")
	}

	h.audit.Record(ctx, models.AuditBreakGlassLogin, nil, nil, nil, c.RealIP())
	return c.JSON(http.StatusOK, map[string]bool{"adminAuthenticated": true})
}

// Check reports whether the current session carries the admin flag.
func (h *AdminHandlers) Check(c echo.Context) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return common.SendServerError(c, "session store unavailable")
	}
	authenticated := sess != nil && sess.AdminAuthenticated
	return c.JSON(http.StatusOK, map[string]bool{"adminAuthenticated": authenticated})
}

// Logout clears only the admin flag, leaving any user login in place.
func (h *AdminHandlers) Logout(c echo.Context) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return common.SendServerError(c, "session store unavailable")
	}
	if sess == nil || !sess.AdminAuthenticated {
		return c.JSON(http.StatusOK, map[string]bool{"adminAuthenticated": false})
	}

	sess.AdminAuthenticated = false
	if sess.UserID == nil {
		if err := h.sessions.Destroy(c); err != nil {
			return common.SendServerError(c, "failed to log out")
		}
	} else if err := h.sessions.Save(c, sess); err != nil {
		return common.SendServerError(c, "failed to log out")
	}
	return c.JSON(http.StatusOK, map[string]bool{"adminAuthenticated": false})
}

// ListUsers returns all users, paginated.
func (h *AdminHandlers) ListUsers(c echo.Context) error {
	limit, offset := paginationParams(c)
	users, err := h.users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns one user by id.
func (h *AdminHandlers) GetUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendServerError(c, "failed to load user")
	}
	return c.JSON(http.StatusOK, user)
}

// InviteUser creates a password-less account and mails a setup token.
func (h *AdminHandlers) InviteUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.InviteUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	user, err := h.users.Invite(ctx, nil, req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Email is already registered")
		}
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser edits profile fields and role.
func (h *AdminHandlers) UpdateUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	var req services.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	user, err := h.users.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendValidationError(c, "body", err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account, refusing self-deletion and the deletion
// of the last admin.
func (h *AdminHandlers) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	targetID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	// The break-glass session may also carry a signed-in user; that user
	// counts as "self" for the self-deletion guard. Without a user identity
	// only the last-admin guard applies.
	actingID := uuid.Nil
	if sessUserID := currentSessionUserID(c); sessUserID != nil {
		actingID = *sessUserID
	}

	if err := h.users.Delete(ctx, actingID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Cannot delete your own account")
		case errors.Is(err, services.ErrLastAdmin):
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Cannot delete the last admin account")
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "user")
		default:
			return common.SendServerError(c, "failed to delete user")
		}
	}

	h.audit.Record(ctx, models.AuditUserDeleted, nil, &targetID, nil, c.RealIP())
	return c.NoContent(http.StatusNoContent)
}
