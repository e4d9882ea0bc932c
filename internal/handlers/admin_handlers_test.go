package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"gymcore/internal/middleware"
	"gymcore/internal/models"
	"gymcore/internal/services"
)

type AdminHandlersTestSuite struct {
	suite.Suite
	e        *echo.Echo
	cache    *memCache
	sessions *services.SessionService
	handlers *AdminHandlers
}

func (s *AdminHandlersTestSuite) SetupTest() {
	s.e = echo.New()
	s.cache = newMemCache()
	s.sessions = services.NewSessionService(s.cache, time.Hour, false)

	userRepo := new(mockUserRepo)
	reset := services.NewPasswordResetService(userRepo, nil)
	users := services.NewUserAdminService(userRepo, reset, nil)
	audit := services.NewAuditService(stubAuditRepo{})

	s.handlers = NewAdminHandlers(s.sessions, users, audit, "admin", "hunter2")
}

func (s *AdminHandlersTestSuite) login(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	s.Require().NoError(s.handlers.Login(c))
	return rec
}

func (s *AdminHandlersTestSuite) TestWrongCredentialFails() {
	rec := s.login(`{"username":"admin","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(s.cache.sessions)
}

func (s *AdminHandlersTestSuite) TestCorrectCredentialSetsFlag() {
	rec := s.login(`{"username":"admin","password":"hunter2"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Len(s.cache.sessions, 1)

	for _, data := range s.cache.sessions {
		var sess models.Session
		s.Require().NoError(json.Unmarshal([]byte(data), &sess))
		s.True(sess.AdminAuthenticated)
		s.Nil(sess.UserID)
	}
}

func (s *AdminHandlersTestSuite) TestFlagRidesAlongsideUserLogin() {
	// An existing user session gains the admin flag without losing the user.
	userID := uuid.New()
	sess := &models.Session{ID: "sess-1", UserID: &userID, Provider: "local", CreatedAt: time.Now()}
	data, err := json.Marshal(sess)
	s.Require().NoError(err)
	s.cache.sessions["sess-1"] = string(data)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	s.Require().NoError(s.handlers.Login(c))
	s.Equal(http.StatusOK, rec.Code)

	var updated models.Session
	s.Require().NoError(json.Unmarshal([]byte(s.cache.sessions["sess-1"]), &updated))
	s.True(updated.AdminAuthenticated)
	s.Require().NotNil(updated.UserID)
	s.Equal(userID, *updated.UserID)
}

func (s *AdminHandlersTestSuite) TestCheckReflectsFlag() {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/check", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	s.Require().NoError(s.handlers.Check(c))

	var body map[string]bool
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body["adminAuthenticated"])
}

func (s *AdminHandlersTestSuite) TestAdminFlagGateBlocksPlainUserSession() {
	userID := uuid.New()
	sess := &models.Session{ID: "sess-2", UserID: &userID, Provider: "local", CreatedAt: time.Now()}
	data, err := json.Marshal(sess)
	s.Require().NoError(err)
	s.cache.sessions["sess-2"] = string(data)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "sess-2"})
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	gate := middleware.AdminFlagAuth(s.sessions)
	handler := gate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	s.Require().NoError(handler(c))

	// A signed-in user without the flag is still unauthenticated here.
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func TestAdminHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlersTestSuite))
}
