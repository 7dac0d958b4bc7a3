package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// add task [description] [feature] [--30] - Add a task to a feature.
// The trailing argument, when it is a positive integer, addresses a feature
// by its 1-based creation-order position. Without it the task lands in the
// project's "General" feature. A --30 flag anywhere in the arguments makes
// the task 30 minutes instead of the default 15.
func (r *Registry) addTask(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail(noActiveProject), nil
	}

	duration := 15
	var filtered []string
	for _, a := range args {
		if a == "--30" {
			duration = 30
			continue
		}
		filtered = append(filtered, a)
	}

	if len(filtered) == 0 {
		return models.Fail("Usage: add task [description] [feature]\nExample: add task \"implement login\" 1"), nil
	}

	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return nil, err
	}

	var feature *models.Feature
	var featureOrdinal int
	descArgs := filtered

	if n, convErr := strconv.Atoi(filtered[len(filtered)-1]); convErr == nil {
		if n < 1 {
			return models.Fail("Feature number must be a positive number"), nil
		}
		if n > len(features) {
			return models.Fail(fmt.Sprintf("Feature #%d not found. Use 'features' to see available features.", n)), nil
		}
		feature = features[n-1]
		featureOrdinal = n
		descArgs = filtered[:len(filtered)-1]
	}

	description := strings.Join(descArgs, " ")
	if description == "" {
		return models.Fail("Task description is required"), nil
	}

	if feature == nil {
		feature, err = r.store.GetOrCreateGeneralFeature(ctx, sess.UserID, sess.ProjectID)
		if err != nil {
			return nil, err
		}
		featureOrdinal, err = r.featureOrdinal(ctx, sess, feature.ID)
		if err != nil {
			return nil, err
		}
	}

	task, err := r.store.CreateTask(ctx, sess.UserID, sess.ProjectID, feature.ID, description, duration)
	if err != nil {
		return nil, err
	}

	pending, err := r.store.ListPendingTasks(ctx, sess.UserID, feature.ID)
	if err != nil {
		return nil, err
	}
	taskOrdinal := len(pending)
	for i, t := range pending {
		if t.ID == task.ID {
			taskOrdinal = i + 1
			break
		}
	}

	return models.OK(
		fmt.Sprintf("Added task: %s (%d.%d) [%dmin]", description, featureOrdinal, taskOrdinal, duration),
		&models.CommandData{Task: task},
	), nil
}

// tasks - List pending tasks of the active project, grouped by feature
func (r *Registry) listTasks(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail(noActiveProject), nil
	}

	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return models.OK("No features yet. Create one with: new feature [name]", nil), nil
	}

	var sections []string
	var allTasks []*models.Task
	for i, feature := range features {
		tasks, err := r.store.ListPendingTasks(ctx, sess.UserID, feature.ID)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)

		if len(tasks) == 0 {
			sections = append(sections, fmt.Sprintf("[%d] %s (no tasks)", i+1, feature.Name))
			continue
		}

		var lines []string
		for j, t := range tasks {
			lines = append(lines, fmt.Sprintf("  [%d.%d] %s", i+1, j+1, t.Description))
		}
		sections = append(sections, fmt.Sprintf("[%d] %s\n%s", i+1, feature.Name, strings.Join(lines, "\n")))
	}

	if len(allTasks) == 0 {
		return models.OK("No pending tasks. Add one with: add task [description] [feature]", nil), nil
	}

	return models.OK(
		"Pending tasks:\n"+strings.Join(sections, "\n\n"),
		&models.CommandData{Features: features, Tasks: allTasks},
	), nil
}

// complete [feature.task] - Complete a pending task
func (r *Registry) completeTask(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail("No active project."), nil
	}

	if len(args) == 0 {
		return models.Fail("Usage: complete [feature.task] (e.g., complete 1.2)"), nil
	}

	task, fail, err := r.resolvePendingTask(ctx, sess, args[0])
	if fail != nil || err != nil {
		return fail, err
	}

	completed, err := r.store.CompleteTask(ctx, sess.UserID, task.ID)
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Task completed: %s", task.Description),
		&models.CommandData{Task: completed, Celebrate: true},
	), nil
}

// uncomplete [feature.task] - Flip a completed task back to pending. The
// task ordinal addresses the feature's completed tasks in completion order.
func (r *Registry) uncompleteTask(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail("No active project."), nil
	}

	if len(args) == 0 {
		return models.Fail("Usage: uncomplete [feature.task] (e.g., uncomplete 1.2)"), nil
	}

	featureNum, taskNum, ok := parseOrdinalPair(args[0])
	if !ok {
		return models.Fail("Invalid task number. Use format: feature.task (e.g., 1.2)"), nil
	}

	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return nil, err
	}
	if featureNum > len(features) {
		return models.Fail(fmt.Sprintf("Feature #%d not found", featureNum)), nil
	}

	completed, err := r.store.ListCompletedTasks(ctx, sess.UserID, features[featureNum-1].ID)
	if err != nil {
		return nil, err
	}
	if taskNum > len(completed) {
		return models.Fail(fmt.Sprintf("Task %d.%d not found", featureNum, taskNum)), nil
	}

	task, err := r.store.UncompleteTask(ctx, sess.UserID, completed[taskNum-1].ID)
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Task marked pending: %s", task.Description),
		&models.CommandData{Task: task},
	), nil
}

// delete [feature.task] - Delete a pending task
func (r *Registry) deleteTask(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail("No active project."), nil
	}

	if len(args) == 0 {
		return models.Fail("Usage: delete [feature.task] (e.g., delete 1.2)"), nil
	}

	task, fail, err := r.resolvePendingTask(ctx, sess, args[0])
	if fail != nil || err != nil {
		return fail, err
	}

	if err := r.store.DeleteTask(ctx, sess.UserID, task.ID); err != nil {
		return nil, err
	}

	return models.OK(fmt.Sprintf("Deleted task: %s", task.Description), nil), nil
}

// resolvePendingTask resolves a feature.task ordinal pair against the
// active project's features and their pending-task listings. It returns a
// failure result for anything the user can fix, an error for store
// failures.
func (r *Registry) resolvePendingTask(ctx context.Context, sess Session, ref string) (*models.Task, *models.CommandResult, error) {
	featureNum, taskNum, ok := parseOrdinalPair(ref)
	if !ok {
		return nil, models.Fail("Invalid task number. Use format: feature.task (e.g., 1.2)"), nil
	}

	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if featureNum > len(features) {
		return nil, models.Fail(fmt.Sprintf("Feature #%d not found", featureNum)), nil
	}

	tasks, err := r.store.ListPendingTasks(ctx, sess.UserID, features[featureNum-1].ID)
	if err != nil {
		return nil, nil, err
	}
	if taskNum > len(tasks) {
		return nil, models.Fail(fmt.Sprintf("Task %d.%d not found", featureNum, taskNum)), nil
	}

	return tasks[taskNum-1], nil, nil
}
