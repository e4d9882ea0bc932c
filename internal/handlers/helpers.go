package handlers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gymcore/internal/middleware"
)

// paginationParams reads limit/offset from the query string. Out-of-range
// values are clamped downstream.
func paginationParams(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

// currentSessionUserID returns the user id carried on the session, if any.
func currentSessionUserID(c echo.Context) *uuid.UUID {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.UserID
	}
	return nil
}
