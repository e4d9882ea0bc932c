package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"gymcore/internal/caching"
	"gymcore/internal/models"
)

const SessionCookieName = "gymcore_sid"

// SessionService manages the opaque server-side session referenced by the
// cookie. One cookie policy applies to every session-setup path: httpOnly,
// SameSite=Lax, Secure in production.
type SessionService struct {
	cache  caching.CacheService
	ttl    time.Duration
	secure bool
}

func NewSessionService(cache caching.CacheService, ttl time.Duration, secure bool) *SessionService {
	return &SessionService{cache: cache, ttl: ttl, secure: secure}
}

// Get loads the session referenced by the request cookie. An absent cookie
// or an expired server-side record returns (nil, nil).
func (s *SessionService) Get(c echo.Context) (*models.Session, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	data, err := s.cache.GetSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		// Corrupt session payloads degrade to unauthenticated.
		return nil, nil
	}
	sess.ID = cookie.Value
	return &sess, nil
}

// GetOrNew loads the current session or starts a fresh one.
func (s *SessionService) GetOrNew(c echo.Context) (*models.Session, error) {
	sess, err := s.Get(c)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	return &models.Session{
		ID:        random.String(40),
		CreatedAt: time.Now(),
	}, nil
}

// Save persists the session and (re)binds the cookie.
func (s *SessionService) Save(c echo.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.cache.SetSession(c.Request().Context(), sess.ID, string(data), s.ttl); err != nil {
		return err
	}

	c.SetCookie(s.cookie(sess.ID, int(s.ttl.Seconds())))
	return nil
}

// Destroy drops the server-side record and expires the cookie.
func (s *SessionService) Destroy(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := s.cache.DeleteSession(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(s.cookie("", -1))
	return nil
}

func (s *SessionService) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
