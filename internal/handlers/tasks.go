package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
)

type createTaskRequest struct {
	ProjectID   string `json:"projectId"`
	FeatureID   string `json:"featureId"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

type updateTaskRequest struct {
	Completed *bool `json:"completed"`
}

// GET /api/tasks?featureId=xxx[&includeCompleted=true] - Tasks of a
// feature. A projectId query instead returns the whole project's tasks.
func (a *API) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	if projectID := c.QueryParam("projectId"); projectID != "" {
		tasks, err := a.store.ListProjectTasks(ctx, userID, projectID, c.QueryParam("includeCompleted") == "true")
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}

	featureID := c.QueryParam("featureId")
	if featureID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "featureId or projectId is required")
	}

	if c.QueryParam("includeCompleted") == "true" {
		pending, err := a.store.ListPendingTasks(ctx, userID, featureID)
		if err != nil {
			return httpError(c, err)
		}
		completed, err := a.store.ListCompletedTasks(ctx, userID, featureID)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, append(pending, completed...))
	}

	tasks, err := a.store.ListPendingTasks(ctx, userID, featureID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// POST /api/tasks - Create a task. Without a featureId the task lands in
// the project's General feature.
func (a *API) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	var req createTaskRequest
	if err := c.Bind(&req); err != nil || req.ProjectID == "" || req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId and description are required")
	}

	featureID := req.FeatureID
	if featureID == "" {
		feature, err := a.store.GetOrCreateGeneralFeature(ctx, userID, req.ProjectID)
		if err != nil {
			return httpError(c, err)
		}
		featureID = feature.ID
	}

	task, err := a.store.CreateTask(ctx, userID, req.ProjectID, featureID, req.Description, req.Duration)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// GET /api/tasks/:id - Fetch one task
func (a *API) GetTask(c echo.Context) error {
	task, err := a.store.GetTask(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// PATCH /api/tasks/:id - Toggle completion. {"completed":true} completes,
// {"completed":false} puts the task back to pending.
func (a *API) UpdateTask(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil || req.Completed == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "completed is required")
	}

	if *req.Completed {
		task, err := a.store.CompleteTask(ctx, userID, c.Param("id"))
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}

	task, err := a.store.UncompleteTask(ctx, userID, c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// DELETE /api/tasks/:id - Delete a task, reversing its counters
func (a *API) DeleteTask(c echo.Context) error {
	if err := a.store.DeleteTask(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "task deleted"})
}
