package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/services"
)

// BearerAuth gates API-style routes on the stateless bearer token. Session
// cookies are ignored here; the two gates are never combined on one group.
func BearerAuth(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: "HS256",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendError(c, 401, common.CodeTokenExpiredOrInvalid, "Invalid or expired token")
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return
			}
			if userID, err := uuid.Parse(claims.Subject); err == nil {
				c.SetRequest(c.Request().WithContext(common.WithUserID(c.Request().Context(), userID)))
			}
		},
	})
}
