package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// CreateTask creates a pending task and bumps the user's pending counter in
// the same batch.
func (fs *FirestoreService) CreateTask(ctx context.Context, userID, projectID, featureID, description string, duration int) (*models.Task, error) {
	if duration <= 0 {
		duration = 15
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		FeatureID:   featureID,
		Description: description,
		Duration:    duration,
		CreatedAt:   time.Now(),
	}

	batch := fs.client.Batch()
	batch.Set(fs.tasks(userID).Doc(task.ID), task)
	fs.appendPendingDelta(batch, userID, 1)
	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	return task, nil
}

// GetTask returns a task by id.
func (fs *FirestoreService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	doc, err := fs.tasks(userID).Doc(taskID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to get task: %v", err)
	}

	var task models.Task
	if err := doc.DataTo(&task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %v", err)
	}

	return &task, nil
}

// ListPendingTasks returns a feature's pending tasks in creation order.
// Task ordinals within a feature are 1-based positions in this listing.
func (fs *FirestoreService) ListPendingTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error) {
	return fs.listTasks(ctx, fs.tasks(userID).
		Where("featureId", "==", featureID).
		Where("completedAt", "==", nil).
		OrderBy("createdAt", firestore.Asc))
}

// ListCompletedTasks returns a feature's completed tasks ordered by
// completion time. The inequality filter forces completedAt to be the first
// sort key anyway.
func (fs *FirestoreService) ListCompletedTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error) {
	return fs.listTasks(ctx, fs.tasks(userID).
		Where("featureId", "==", featureID).
		Where("completedAt", "!=", nil).
		OrderBy("completedAt", firestore.Asc))
}

// ListProjectTasks returns a project's tasks in creation order, optionally
// including completed ones.
func (fs *FirestoreService) ListProjectTasks(ctx context.Context, userID, projectID string, includeCompleted bool) ([]*models.Task, error) {
	q := fs.tasks(userID).Where("projectId", "==", projectID)
	if !includeCompleted {
		q = q.Where("completedAt", "==", nil)
	}
	return fs.listTasks(ctx, q.OrderBy("createdAt", firestore.Asc))
}

func (fs *FirestoreService) listTasks(ctx context.Context, q firestore.Query) ([]*models.Task, error) {
	iter := q.Documents(ctx)

	var tasks []*models.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate tasks: %v", err)
		}

		var task models.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task: %v", err)
		}

		tasks = append(tasks, &task)
	}

	return tasks, nil
}

// CompleteTask flips a pending task to completed and applies the completion
// increment set (project, feature, user summary, daily bucket) in the same
// atomic batch.
func (fs *FirestoreService) CompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := fs.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Pending() {
		return nil, fmt.Errorf("%w: task already completed", ErrConflict)
	}

	now := time.Now()
	task.CompletedAt = &now
	task.CompletedDate = models.DateString(now)

	batch := fs.client.Batch()
	batch.Update(fs.tasks(userID).Doc(task.ID), []firestore.Update{
		{Path: "completedAt", Value: now},
		{Path: "completedDate", Value: task.CompletedDate},
	})
	fs.appendCompletionDeltas(batch, userID, task, task.CompletedDate, 1, true)
	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to complete task: %v", err)
	}

	return task, nil
}

// UncompleteTask flips a completed task back to pending and reverses the
// completion increments against the task's previous completion day.
func (fs *FirestoreService) UncompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := fs.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Pending() {
		return nil, fmt.Errorf("%w: task is not completed", ErrConflict)
	}

	previousDate := task.CompletedDate
	task.CompletedAt = nil
	task.CompletedDate = ""

	batch := fs.client.Batch()
	batch.Update(fs.tasks(userID).Doc(task.ID), []firestore.Update{
		{Path: "completedAt", Value: nil},
		{Path: "completedDate", Value: firestore.Delete},
	})
	fs.appendCompletionDeltas(batch, userID, task, previousDate, -1, true)
	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to uncomplete task: %v", err)
	}

	return task, nil
}

// DeleteTask removes a task and reverses whatever counters its current
// state implies: a pending task releases the pending counter, a completed
// task releases the project, feature, user, and daily counters it earned.
func (fs *FirestoreService) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := fs.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	batch := fs.client.Batch()
	batch.Delete(fs.tasks(userID).Doc(task.ID))
	if task.Pending() {
		fs.appendPendingDelta(batch, userID, -1)
	} else {
		fs.appendCompletionDeltas(batch, userID, task, task.CompletedDate, -1, false)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	return nil
}
