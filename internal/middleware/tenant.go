package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/services"
)

// TenantScope resolves the operative gym for the request and stores it on
// the request context. honorQueryParam enables the explicit gymId override
// and is only set on hub-style route groups. Runs after SessionAuth.
func TenantScope(resolver *services.TenantResolver, honorQueryParam bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return common.SendUnauthenticated(c)
			}

			var explicit *uuid.UUID
			if honorQueryParam {
				if raw := c.QueryParam("gymId"); raw != "" {
					id, err := common.ValidateUUID(raw, "gymId")
					if err != nil {
						return common.SendValidationError(c, "gymId", "must be a valid UUID")
					}
					explicit = &id
				}
			}

			gymID, err := resolver.Resolve(c.Request().Context(), user, explicit)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrTenantSelectionRequired):
					return common.SendError(c, http.StatusConflict, common.CodeTenantSelectionRequired,
						"Multiple gyms available, select one via /api/gyms/set-active")
				case errors.Is(err, services.ErrTenantUnresolved):
					return common.SendError(c, http.StatusBadRequest, common.CodeTenantUnresolved,
						"No gym could be resolved for this account")
				default:
					return common.SendServerError(c, "failed to resolve gym")
				}
			}

			c.SetRequest(c.Request().WithContext(common.WithGymID(c.Request().Context(), gymID)))
			return next(c)
		}
	}
}
