package middleware

import (
	"errors"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"gymcore/internal/common"
	"gymcore/internal/models"
	"gymcore/internal/repositories"
	"gymcore/internal/services"
)

const (
	// CurrentUserKey holds the loaded *models.User on the echo context.
	CurrentUserKey = "currentUser"
	// CurrentSessionKey holds the *models.Session on the echo context.
	CurrentSessionKey = "currentSession"
)

// SessionAuth gates a route group on an authenticated session. A missing
// cookie, a dead session record, an expired OIDC credential or a
// since-deleted user all degrade to 401, never to 500.
func SessionAuth(sessions *services.SessionService, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessions.Get(c)
			if err != nil {
				log.Printf("Session lookup failed: %v", err)
				return common.SendServerError(c, "session store unavailable")
			}
			if sess == nil || sess.UserID == nil {
				return common.SendUnauthenticated(c)
			}

			// OIDC sessions carry the provider token expiry; renewal is
			// unsupported, so an expired credential ends the session.
			if sess.Provider == "oidc" && sess.OIDCExpiresAt != nil &&
				time.Now().Unix() >= *sess.OIDCExpiresAt {
				if err := sessions.Destroy(c); err != nil {
					log.Printf("Failed to destroy expired OIDC session: %v", err)
				}
				return common.SendError(c, 401, common.CodeTokenExpiredOrInvalid, "Provider credential expired, please sign in again")
			}

			user, err := userRepo.GetByID(c.Request().Context(), *sess.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					// The user behind this session was deleted.
					if derr := sessions.Destroy(c); derr != nil {
						log.Printf("Failed to destroy orphaned session: %v", derr)
					}
					return common.SendUnauthenticated(c)
				}
				return common.SendServerError(c, "failed to load user")
			}

			c.Set(CurrentUserKey, user)
			c.Set(CurrentSessionKey, sess)
			c.SetRequest(c.Request().WithContext(common.WithUserID(c.Request().Context(), user.ID)))
			return next(c)
		}
	}
}

// RequireRoles allows only the listed user types through. Runs after
// SessionAuth.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return common.SendUnauthenticated(c)
			}
			if !allowed[user.UserType] {
				return common.SendForbidden(c)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by SessionAuth, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(CurrentUserKey).(*models.User)
	return user
}

// CurrentSession returns the session loaded by SessionAuth, or nil.
func CurrentSession(c echo.Context) *models.Session {
	sess, _ := c.Get(CurrentSessionKey).(*models.Session)
	return sess
}
