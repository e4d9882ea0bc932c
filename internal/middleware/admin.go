package middleware

import (
	"log"

	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/services"
)

// AdminFlagAuth gates break-glass admin routes on the session's
// adminAuthenticated boolean. It deliberately ignores user identity, role
// and tenant: the flag is the only thing these routes trust.
func AdminFlagAuth(sessions *services.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessions.Get(c)
			if err != nil {
				log.Printf("Session lookup failed: %v", err)
				return common.SendServerError(c, "session store unavailable")
			}
			if sess == nil || !sess.AdminAuthenticated {
				return common.SendUnauthenticated(c)
			}
			c.Set(CurrentSessionKey, sess)
			return next(c)
		}
	}
}
