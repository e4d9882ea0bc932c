package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	GymIDKey  contextKey = "gym_id"
)

// Error codes surfaced to callers. Authentication failures are terminal
// per-request and always carry one of these in the envelope.
const (
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeNoPasswordSet           = "NO_PASSWORD_SET"
	CodeTokenExpiredOrInvalid   = "TOKEN_EXPIRED_OR_INVALID"
	CodeTenantUnresolved        = "TENANT_UNRESOLVED"
	CodeTenantSelectionRequired = "TENANT_SELECTION_REQUIRED"
	CodeForbidden               = "FORBIDDEN"
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeConflict                = "CONFLICT"
	CodeNotFound                = "NOT_FOUND"
	CodeServerError             = "SERVER_ERROR"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendError sends a standardized error response with the given status
func SendError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, CreateErrorResponse(code, message, nil))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{field: message}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidationError, "Validation failed", details))
}

// SendUnauthenticated sends the generic 401 envelope
func SendUnauthenticated(c echo.Context) error {
	return SendError(c, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required")
}

// SendForbidden sends the generic 403 envelope
func SendForbidden(c echo.Context) error {
	return SendError(c, http.StatusForbidden, CodeForbidden, "Insufficient permissions")
}

// SendInvalidCredentials sends the deliberately generic login failure.
// Wrong email, wrong password and wrong role all surface identically to
// avoid account enumeration.
func SendInvalidCredentials(c echo.Context) error {
	return SendError(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password")
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse(CodeServerError, message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse(CodeNotFound, fmt.Sprintf("%s not found", resource), nil))
}

// ValidateUUID validates UUID path/query parameters
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail performs a light shape check on email addresses
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

// MinPasswordLength is the only server-side password policy on the
// self-service path. Clients may enforce more but are not authoritative.
const MinPasswordLength = 6

// ValidatePassword checks the server-side minimum length policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetGymIDFromContext extracts the resolved gym ID from the request context
func GetGymIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	gymID, ok := ctx.Value(GymIDKey).(uuid.UUID)
	return gymID, ok
}

// WithUserID annotates ctx with the authenticated user's ID
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithGymID annotates ctx with the operative gym ID
func WithGymID(ctx context.Context, gymID uuid.UUID) context.Context {
	return context.WithValue(ctx, GymIDKey, gymID)
}
