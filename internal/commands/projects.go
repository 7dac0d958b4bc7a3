package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fifteenmin/fifteenmin/internal/models"
	"github.com/fifteenmin/fifteenmin/internal/services"
)

// new project [name] - Create a new project
func (r *Registry) newProject(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return models.Fail("Project name is required"), nil
	}

	project, err := r.store.CreateProject(ctx, sess.UserID, name)
	if errors.Is(err, services.ErrConflict) {
		return models.Fail(fmt.Sprintf("Project %q already exists", name)), nil
	}
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Created project: %s", name),
		&models.CommandData{Project: project},
	), nil
}

// switch [project] - Switch to a project
func (r *Registry) switchProject(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return models.Fail("Usage: switch [project name]"), nil
	}

	project, err := r.store.GetProjectByName(ctx, sess.UserID, name)
	if errors.Is(err, services.ErrNotFound) {
		return models.Fail(fmt.Sprintf("Project %q not found", name)), nil
	}
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Switched to project: %s", project.Name),
		&models.CommandData{Project: project},
	), nil
}

// projects - List all projects, newest first
func (r *Registry) listProjects(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	projects, err := r.store.ListProjects(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		return models.OK("No projects yet. Create one with: new project [name]", nil), nil
	}

	var lines []string
	for i, p := range projects {
		lines = append(lines, fmt.Sprintf("[%d] %s (%d tasks completed)", i+1, p.Name, p.TasksCompleted))
	}

	return models.OK(
		"Your projects:\n"+strings.Join(lines, "\n"),
		&models.CommandData{Projects: projects},
	), nil
}
