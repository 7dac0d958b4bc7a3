package commands

import (
	"context"
	"fmt"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// new project [name] or new feature [name]
func (r *Registry) newCommand(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if len(args) == 0 {
		return models.Fail("Usage: new project [name] or new feature [name]"), nil
	}

	switch args[0] {
	case "project":
		return r.newProject(ctx, args[1:], sess)
	case "feature":
		return r.newFeature(ctx, args[1:], sess)
	}

	return models.Fail("Usage: new project [name] or new feature [name]"), nil
}

// add task [description] [feature]
func (r *Registry) addCommand(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if len(args) == 0 || args[0] != "task" {
		return models.Fail("Usage: add task [description] [feature]"), nil
	}
	return r.addTask(ctx, args[1:], sess)
}

// stats - Show aggregate statistics
func (r *Registry) stats(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	totalProjects, err := r.store.ProjectCount(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	totalCompleted, err := r.store.CompletedTaskCount(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	totalMinutes, err := r.store.CompletedDurationSum(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	summary := &models.StatsSummary{
		TotalProjects:  totalProjects,
		TotalCompleted: totalCompleted,
		TotalMinutes:   totalMinutes,
		JellyBeans:     totalCompleted,
	}

	message := fmt.Sprintf(`
╔══════════════════════════════════════╗
║          YOUR STATISTICS             ║
╚══════════════════════════════════════╝

Total Projects: %d
Total Tasks Completed: %d
Total Time Invested: %dh %dm
Jelly Beans Earned: %d
`, totalProjects, totalCompleted, totalMinutes/60, totalMinutes%60, totalCompleted)

	return models.OK(message, &models.CommandData{Stats: summary}), nil
}

// help - Show the command reference
func (r *Registry) help(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	const helpText = `
╔══════════════════════════════════════╗
║        15 MINUTES - COMMANDS         ║
╚══════════════════════════════════════╝

PROJECT MANAGEMENT:
  new project [name]        Create a new project
  switch [project]          Switch to a project
  projects                  List all projects

FEATURE MANAGEMENT:
  new feature [name]        Create a feature in current project
  features                  List all features in current project

TASK MANAGEMENT:
  add task [desc] [feature] Add a 15min task to a feature
                            Example: add task "implement login" 1
                            Add --30 for a 30min task
  tasks                     List pending tasks (grouped by feature)
  complete [feature.task]   Complete a task
                            Example: complete 1.2
  uncomplete [feature.task] Put a completed task back
  delete [feature.task]     Delete a pending task

SOCIAL:
  streak with @[name]       Start a streak
  streak                    View streaks
  share [feature.task] with @[name]
                            Share a task

OTHER:
  stats                     View statistics
  help                      Show this help
  clear                     Clear terminal

Pro tip: All tasks are 15 minutes. Stay focused!
`

	return models.OK(helpText, nil), nil
}

// clear - Clear the transcript
func (r *Registry) clear(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	return models.OK("", &models.CommandData{Clear: true}), nil
}
