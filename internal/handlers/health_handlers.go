package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"gymcore/internal/caching"
)

// HealthHandlers exposes liveness and readiness probes.
type HealthHandlers struct {
	pool  *pgxpool.Pool
	cache caching.CacheService
}

func NewHealthHandlers(pool *pgxpool.Pool, cache caching.CacheService) *HealthHandlers {
	return &HealthHandlers{pool: pool, cache: cache}
}

// Health is the liveness probe.
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks the database and session store.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	checks := map[string]string{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, checks)
}
