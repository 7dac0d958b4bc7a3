package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
	"github.com/fifteenmin/fifteenmin/internal/models"
)

type statsResponse struct {
	CompletedCount int64 `json:"completedCount"`
	PendingCount   int64 `json:"pendingCount"`
	TotalCount     int64 `json:"totalCount"`
}

// GET /api/stats - User summary, read from the denormalized stats object
// rather than scanning tasks.
func (a *API) GetStats(c echo.Context) error {
	stats, err := a.store.UserStats(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, statsResponse{
		CompletedCount: stats.TotalCompleted,
		PendingCount:   stats.TotalPending,
		TotalCount:     stats.TotalCompleted + stats.TotalPending,
	})
}

// GET /api/stats/daily[?days=N] - Per-day completion buckets, newest first
func (a *API) GetDailyStats(c echo.Context) error {
	limit := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive number")
		}
		limit = n
	}

	stats, err := a.store.ListDailyStats(c.Request().Context(), auth.UserID(c), limit)
	if err != nil {
		return httpError(c, err)
	}
	if stats == nil {
		stats = []*models.DailyStat{}
	}
	return c.JSON(http.StatusOK, stats)
}
