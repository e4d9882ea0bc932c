package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"gymcore/internal/common"
)

// CredentialRateLimit bounds brute-force attempts on login, registration
// and password-reset endpoints. Counters are per-IP and process-local.
func CredentialRateLimit(perMinute int) echo.MiddlewareFunc {
	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60.0),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendError(c, http.StatusForbidden, common.CodeForbidden, "Could not identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return common.SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, slow down")
		},
	})
}
