// Package commands implements the chat-widget command language: parsing a
// raw input line, dispatching to a handler, and producing a structured
// result for the transcript.
package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// Store is the entity store the commands run against. It is satisfied by
// services.FirestoreService; tests substitute an in-memory implementation.
type Store interface {
	CreateProject(ctx context.Context, userID, name string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]*models.Project, error)
	GetProject(ctx context.Context, userID, projectID string) (*models.Project, error)
	GetProjectByName(ctx context.Context, userID, name string) (*models.Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error

	CreateFeature(ctx context.Context, userID, projectID, name string) (*models.Feature, error)
	ListFeatures(ctx context.Context, userID, projectID string) ([]*models.Feature, error)
	GetFeatureByName(ctx context.Context, userID, projectID, name string) (*models.Feature, error)
	GetOrCreateGeneralFeature(ctx context.Context, userID, projectID string) (*models.Feature, error)
	DeleteFeature(ctx context.Context, userID, featureID string) error

	CreateTask(ctx context.Context, userID, projectID, featureID, description string, duration int) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	ListPendingTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error)
	ListCompletedTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error)
	ListProjectTasks(ctx context.Context, userID, projectID string, includeCompleted bool) ([]*models.Task, error)
	CompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	UncompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error

	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	ListDailyStats(ctx context.Context, userID string, limit int) ([]*models.DailyStat, error)
	ProjectCount(ctx context.Context, userID string) (int64, error)
	CompletedTaskCount(ctx context.Context, userID string) (int64, error)
	CompletedDurationSum(ctx context.Context, userID string) (int64, error)

	CreateStreak(ctx context.Context, userID, partnerName string) (*models.Streak, error)
	ListStreaks(ctx context.Context, userID string) ([]*models.Streak, error)
	CreateSharedTask(ctx context.Context, userID, taskID, description, partnerName string) (*models.SharedTask, error)
	ListSharedTasks(ctx context.Context, userID string) ([]*models.SharedTask, error)
}

// Session is the interactive context supplied by the caller with every
// command. ProjectID is the active project, empty when none is selected.
// The command layer never stores session state of its own.
type Session struct {
	UserID    string
	ProjectID string
}

// Handler executes one command against the store.
type Handler func(ctx context.Context, args []string, sess Session) (*models.CommandResult, error)

// Registry maps command names to handlers.
type Registry struct {
	store    Store
	handlers map[string]Handler
}

func NewRegistry(store Store) *Registry {
	r := &Registry{store: store}
	r.handlers = map[string]Handler{
		"new":        r.newCommand,
		"switch":     r.switchProject,
		"projects":   r.listProjects,
		"features":   r.listFeatures,
		"add":        r.addCommand,
		"tasks":      r.listTasks,
		"complete":   r.completeTask,
		"uncomplete": r.uncompleteTask,
		"delete":     r.deleteTask,
		"stats":      r.stats,
		"streak":     r.streak,
		"share":      r.share,
		"help":       r.help,
		"clear":      r.clear,
	}
	return r
}

// Execute parses one input line and runs the matching handler. A blank line
// yields a silent failure so the transcript stays clean. Handler errors are
// never propagated; they surface as a generic failure message.
func (r *Registry) Execute(ctx context.Context, input string, sess Session) *models.CommandResult {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return models.Fail("")
	}

	parts := strings.Fields(trimmed)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	handler, ok := r.handlers[name]
	if !ok {
		return models.Fail(fmt.Sprintf("Command not found: %s. Type 'help' for available commands.", name))
	}

	result, err := handler(ctx, args, sess)
	if err != nil {
		return models.Fail("Error executing command: " + err.Error())
	}
	return result
}

// parseOrdinalPair parses a feature.task reference like "1.2" into its
// 1-based ordinals.
func parseOrdinalPair(s string) (feature, task int, ok bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return 0, 0, false
	}
	feature, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	task, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if feature < 1 || task < 1 {
		return 0, 0, false
	}
	return feature, task, true
}
