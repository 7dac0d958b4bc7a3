package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
)

type createProjectRequest struct {
	Name string `json:"name"`
}

// GET /api/projects - All projects for the user, newest first
func (a *API) ListProjects(c echo.Context) error {
	projects, err := a.store.ListProjects(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

// POST /api/projects - Create a project
func (a *API) CreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project name is required")
	}

	project, err := a.store.CreateProject(c.Request().Context(), auth.UserID(c), req.Name)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

// GET /api/projects/:id - Fetch one project
func (a *API) GetProject(c echo.Context) error {
	project, err := a.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

// DELETE /api/projects/:id - Delete a project (children are not cascaded)
func (a *API) DeleteProject(c echo.Context) error {
	if err := a.store.DeleteProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "project deleted"})
}

type createFeatureRequest struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

// GET /api/features?projectId=xxx - Features of a project in creation order
func (a *API) ListFeatures(c echo.Context) error {
	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is required")
	}

	features, err := a.store.ListFeatures(c.Request().Context(), auth.UserID(c), projectID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, features)
}

// POST /api/features - Create a feature
func (a *API) CreateFeature(c echo.Context) error {
	var req createFeatureRequest
	if err := c.Bind(&req); err != nil || req.ProjectID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId and name are required")
	}

	feature, err := a.store.CreateFeature(c.Request().Context(), auth.UserID(c), req.ProjectID, req.Name)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, feature)
}

// DELETE /api/features/:id - Delete a feature (tasks are not cascaded)
func (a *API) DeleteFeature(c echo.Context) error {
	if err := a.store.DeleteFeature(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "feature deleted"})
}
