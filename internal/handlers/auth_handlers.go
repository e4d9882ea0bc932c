package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"gymcore/internal/common"
	"gymcore/internal/middleware"
	"gymcore/internal/models"
	"gymcore/internal/providers"
	"gymcore/internal/services"
)

const oauthStateCookie = "gymcore_oauth_state"

// AuthHandlers handles login, registration, logout and the external
// provider callbacks.
type AuthHandlers struct {
	localProvider  *providers.LocalProvider
	googleProvider *providers.GoogleProvider
	oidcProvider   *providers.OIDCProvider
	registration   *services.RegistrationService
	passwordReset  *services.PasswordResetService
	sessions       *services.SessionService
	tokens         services.TokenService
	audit          *services.AuditService
}

func NewAuthHandlers(
	localProvider *providers.LocalProvider,
	googleProvider *providers.GoogleProvider,
	oidcProvider *providers.OIDCProvider,
	registration *services.RegistrationService,
	passwordReset *services.PasswordResetService,
	sessions *services.SessionService,
	tokens services.TokenService,
	audit *services.AuditService,
) *AuthHandlers {
	return &AuthHandlers{
		localProvider:  localProvider,
		googleProvider: googleProvider,
		oidcProvider:   oidcProvider,
		registration:   registration,
		passwordReset:  passwordReset,
		sessions:       sessions,
		tokens:         tokens,
		audit:          audit,
	}
}

// LoginRequest carries the role alongside the credentials: the login form
// asks which role the user is signing in as.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// LoginResponse returns the user together with the bearer token for
// API-style clients.
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login authenticates email+password+role and establishes a session.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "body", "email and password are required")
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeAluno
	}
	if !models.ValidUserType(req.UserType) {
		return common.SendValidationError(c, "userType", "unknown user type")
	}

	res, err := h.localProvider.Resolve(ctx, providers.PasswordAssertion{
		Email:        req.Email,
		Password:     req.Password,
		ExpectedRole: req.UserType,
	})
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrNoPasswordSet):
			h.audit.Record(ctx, models.AuditLoginFailure, nil, nil, nil, c.RealIP())
			return common.SendError(c, http.StatusUnauthorized, common.CodeNoPasswordSet,
				"This account has no password yet, use the password reset flow to set one")
		case errors.Is(err, providers.ErrInvalidCredentials):
			h.audit.Record(ctx, models.AuditLoginFailure, nil, nil, nil, c.RealIP())
			return common.SendInvalidCredentials(c)
		default:
			log.Printf("Login failed for request: %v", err)
			return common.SendServerError(c, "login failed")
		}
	}

	if err := h.establishSession(c, res, "local"); err != nil {
		return common.SendServerError(c, "failed to establish session")
	}

	token, err := h.tokens.Issue(res.User)
	if err != nil {
		log.Printf("Failed to issue token for user %s: %v", res.User.ID, err)
		return common.SendServerError(c, "failed to issue token")
	}

	h.audit.Record(ctx, models.AuditLoginSuccess, res.User.GymID, &res.User.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, User: res.User})
}

// Register creates a self-service local account.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	user, err := h.registration.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Email is already registered")
		case errors.Is(err, services.ErrInviteInvalid):
			return common.SendValidationError(c, "inviteCode", "invite code is invalid or inactive")
		case errors.Is(err, services.ErrGymFull):
			return common.SendError(c, http.StatusConflict, common.CodeConflict, "Gym has reached its member limit")
		default:
			return common.SendValidationError(c, "body", err.Error())
		}
	}

	h.audit.Record(ctx, models.AuditRegister, user.GymID, &user.ID, nil, c.RealIP())
	return c.JSON(http.StatusCreated, user)
}

// Logout tears down the session. Registered on both GET and POST because
// older clients link to it directly.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c); err != nil {
		log.Printf("Failed to destroy session: %v", err)
		return common.SendServerError(c, "failed to log out")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user. Runs behind SessionAuth.
func (h *AuthHandlers) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return common.SendUnauthenticated(c)
	}
	return c.JSON(http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token. The response is identical whether
// the email exists or not.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	if err := common.ValidateEmail(req.Email); err != nil {
		return common.SendValidationError(c, "email", "must be a valid email address")
	}

	if err := h.passwordReset.Request(c.Request().Context(), req.Email); err != nil {
		log.Printf("Password reset request failed: %v", err)
		return common.SendServerError(c, "failed to process request")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "if the account exists, a reset email was sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword redeems a reset token for a new password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}

	if err := h.passwordReset.Reset(ctx, req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			return common.SendError(c, http.StatusBadRequest, common.CodeTokenExpiredOrInvalid,
				"Reset token is expired or invalid")
		}
		return common.SendValidationError(c, "password", err.Error())
	}

	h.audit.Record(ctx, models.AuditPasswordReset, nil, nil, nil, c.RealIP())
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// GoogleRedirect sends the browser to the Google consent screen. The state
// nonce is pinned in a short-lived cookie for the callback to verify.
func (h *AuthHandlers) GoogleRedirect(c echo.Context) error {
	state := random.String(32)
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.googleProvider.AuthCodeURL(state))
}

// GoogleCallback completes the OAuth code exchange and signs the user in.
func (h *AuthHandlers) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		return common.SendValidationError(c, "state", "state mismatch")
	}
	c.SetCookie(&http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	code := c.QueryParam("code")
	if code == "" {
		return common.SendValidationError(c, "code", "missing authorization code")
	}

	res, err := h.googleProvider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, providers.ErrNoEmailInProfile) {
			return common.SendValidationError(c, "profile", "Google profile has no email address")
		}
		log.Printf("Google callback failed: %v", err)
		return common.SendError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, "Google sign-in failed")
	}

	if err := h.establishSession(c, res, "google"); err != nil {
		return common.SendServerError(c, "failed to establish session")
	}

	h.audit.Record(ctx, models.AuditLoginSuccess, res.User.GymID, &res.User.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, map[string]any{"user": res.User})
}

type oidcCallbackRequest struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// OIDCCallback verifies a platform ID token and signs the user in. The
// provider token expiry rides on the session; once it passes, the session
// dies, renewal is not attempted.
func (h *AuthHandlers) OIDCCallback(c echo.Context) error {
	ctx := c.Request().Context()

	var req oidcCallbackRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if req.IDToken == "" {
		return common.SendValidationError(c, "idToken", "is required")
	}

	res, err := h.oidcProvider.Authenticate(ctx, req.IDToken, req.RefreshToken)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidCredentials) {
			return common.SendError(c, http.StatusUnauthorized, common.CodeTokenExpiredOrInvalid, "ID token verification failed")
		}
		log.Printf("OIDC callback failed: %v", err)
		return common.SendServerError(c, "sign-in failed")
	}

	if err := h.establishSession(c, res, "oidc"); err != nil {
		return common.SendServerError(c, "failed to establish session")
	}

	h.audit.Record(ctx, models.AuditLoginSuccess, res.User.GymID, &res.User.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, map[string]any{"user": res.User})
}

// establishSession binds the resolved user onto the (possibly existing)
// session. The adminAuthenticated flag is preserved: the two concerns are
// orthogonal and a browser may hold both.
func (h *AuthHandlers) establishSession(c echo.Context, res *providers.Resolution, provider string) error {
	sess, err := h.sessions.GetOrNew(c)
	if err != nil {
		return err
	}
	sess.UserID = &res.User.ID
	sess.Provider = provider
	sess.OIDCExpiresAt = res.OIDCExpiresAt
	sess.OIDCRefreshToken = res.OIDCRefreshToken
	return h.sessions.Save(c, sess)
}
