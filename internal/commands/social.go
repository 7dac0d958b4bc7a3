package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// streak / streak with @[name] - Start or list accountability streaks.
// Streaks are records only; nothing advances them when tasks complete.
func (r *Registry) streak(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if len(args) >= 2 && args[0] == "with" && strings.HasPrefix(args[1], "@") {
		partnerName := strings.TrimPrefix(args[1], "@")
		if partnerName == "" {
			return models.Fail("Usage: streak with @[partner name]"), nil
		}

		streak, err := r.store.CreateStreak(ctx, sess.UserID, partnerName)
		if err != nil {
			return nil, err
		}

		return models.OK(
			fmt.Sprintf("Started tracking streak with @%s", partnerName),
			&models.CommandData{Streak: streak},
		), nil
	}

	streaks, err := r.store.ListStreaks(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if len(streaks) == 0 {
		return models.OK("No streaks yet. Start one with: streak with @[name]", nil), nil
	}

	var lines []string
	for _, s := range streaks {
		lines = append(lines, fmt.Sprintf("@%s: %d days (longest: %d)", s.PartnerName, s.CurrentStreak, s.LongestStreak))
	}

	return models.OK(
		"Your streaks:\n"+strings.Join(lines, "\n"),
		&models.CommandData{Streaks: streaks},
	), nil
}

// share [feature.task] with @[name] - Record sharing a task with a partner.
// Uses the same pending-task addressing as complete.
func (r *Registry) share(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail("No active project."), nil
	}

	if len(args) < 3 || args[1] != "with" || !strings.HasPrefix(args[2], "@") {
		return models.Fail("Usage: share [feature.task] with @[person]"), nil
	}

	partnerName := strings.TrimPrefix(args[2], "@")
	if partnerName == "" {
		return models.Fail("Usage: share [feature.task] with @[person]"), nil
	}

	task, fail, err := r.resolvePendingTask(ctx, sess, args[0])
	if fail != nil || err != nil {
		return fail, err
	}

	shared, err := r.store.CreateSharedTask(ctx, sess.UserID, task.ID, task.Description, partnerName)
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Shared %q with @%s", task.Description, partnerName),
		&models.CommandData{SharedTask: shared},
	), nil
}
