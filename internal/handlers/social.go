package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
	"github.com/fifteenmin/fifteenmin/internal/models"
)

// GET /api/streaks - The user's streak records
func (a *API) ListStreaks(c echo.Context) error {
	streaks, err := a.store.ListStreaks(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	if streaks == nil {
		streaks = []*models.Streak{}
	}
	return c.JSON(http.StatusOK, streaks)
}

// GET /api/shared - Share records, newest first
func (a *API) ListSharedTasks(c echo.Context) error {
	shared, err := a.store.ListSharedTasks(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	if shared == nil {
		shared = []*models.SharedTask{}
	}
	return c.JSON(http.StatusOK, shared)
}
