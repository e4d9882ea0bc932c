package middleware

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/services"
)

// AuditMiddleware records mutating requests against sensitive route groups.
type AuditMiddleware struct {
	auditService *services.AuditService
}

func NewAuditMiddleware(auditService *services.AuditService) *AuditMiddleware {
	return &AuditMiddleware{auditService: auditService}
}

// AuditMutations logs POST/PUT/PATCH/DELETE requests after they complete.
// GET traffic is skipped; handler errors are included in the detail line.
func (m *AuditMiddleware) AuditMutations() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == "GET" || method == "HEAD" || method == "OPTIONS" {
				return err
			}

			ctx := c.Request().Context()

			var gymPtr, userPtr *uuid.UUID
			if gymID, ok := common.GetGymIDFromContext(ctx); ok {
				gymPtr = &gymID
			}
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				userPtr = &userID
			}

			detail := fmt.Sprintf("%s %s status=%d", method, c.Path(), c.Response().Status)
			if err != nil {
				detail = fmt.Sprintf("%s error=%v", detail, err)
			}

			m.auditService.Record(ctx, "http.request", gymPtr, userPtr, &detail, c.RealIP())
			return err
		}
	}
}
