// Package handlers exposes the command surface and the REST routes over
// the entity store.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
	"github.com/fifteenmin/fifteenmin/internal/commands"
	"github.com/fifteenmin/fifteenmin/internal/services"
)

type API struct {
	store    commands.Store
	registry *commands.Registry
}

func NewAPI(store commands.Store) *API {
	return &API{
		store:    store,
		registry: commands.NewRegistry(store),
	}
}

// Register mounts all API routes on the given group. The group is expected
// to carry the auth middleware already.
func (a *API) Register(g *echo.Group) {
	g.POST("/command", a.ExecuteCommand)

	g.GET("/projects", a.ListProjects)
	g.POST("/projects", a.CreateProject)
	g.GET("/projects/:id", a.GetProject)
	g.DELETE("/projects/:id", a.DeleteProject)

	g.GET("/features", a.ListFeatures)
	g.POST("/features", a.CreateFeature)
	g.DELETE("/features/:id", a.DeleteFeature)

	g.GET("/tasks", a.ListTasks)
	g.POST("/tasks", a.CreateTask)
	g.GET("/tasks/:id", a.GetTask)
	g.PATCH("/tasks/:id", a.UpdateTask)
	g.DELETE("/tasks/:id", a.DeleteTask)

	g.GET("/stats", a.GetStats)
	g.GET("/stats/daily", a.GetDailyStats)

	g.GET("/streaks", a.ListStreaks)
	g.GET("/shared", a.ListSharedTasks)
}

type commandRequest struct {
	Input     string `json:"input"`
	ProjectID string `json:"projectId"`
}

// ExecuteCommand runs one chat-widget command line. The active project is
// session state held by the client and passed along with every invocation.
func (a *API) ExecuteCommand(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess := commands.Session{
		UserID:    auth.UserID(c),
		ProjectID: req.ProjectID,
	}

	result := a.registry.Execute(c.Request().Context(), req.Input, sess)
	return c.JSON(http.StatusOK, result)
}

// httpError maps store errors onto HTTP status codes.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		log.Printf("store error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
