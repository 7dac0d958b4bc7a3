package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

// Statistics maintenance. Denormalized counters (project.tasksCompleted,
// feature.tasksCompleted, the user stats object, daily buckets) are mutated
// exclusively through firestore.Increment deltas appended to the same write
// batch as the task mutation that triggered them. Never read-modify-write:
// a delta op commutes with concurrent writers, an absolute overwrite races.

// appendPendingDelta adjusts the user's pending counter.
func (fs *FirestoreService) appendPendingDelta(b *firestore.WriteBatch, userID string, delta int64) {
	b.Set(fs.userDoc(userID), map[string]interface{}{
		"stats": map[string]interface{}{
			"totalPending": firestore.Increment(delta),
			"lastUpdated":  time.Now(),
		},
	}, firestore.MergeAll)
}

// appendCompletionDeltas applies the full completion increment set for a
// task: project and feature counters, the user summary, and the daily
// bucket for the completion day. delta is +1 on complete and -1 on
// uncomplete; movePending mirrors the completed delta back into the pending
// counter, and is false when a completed task is deleted outright.
func (fs *FirestoreService) appendCompletionDeltas(b *firestore.WriteBatch, userID string, task *models.Task, date string, delta int64, movePending bool) {
	b.Update(fs.projects(userID).Doc(task.ProjectID), []firestore.Update{
		{Path: "tasksCompleted", Value: firestore.Increment(delta)},
	})
	b.Update(fs.features(userID).Doc(task.FeatureID), []firestore.Update{
		{Path: "tasksCompleted", Value: firestore.Increment(delta)},
	})

	userStats := map[string]interface{}{
		"totalCompleted": firestore.Increment(delta),
		"lastUpdated":    time.Now(),
	}
	if movePending {
		userStats["totalPending"] = firestore.Increment(-delta)
	}
	b.Set(fs.userDoc(userID), map[string]interface{}{
		"stats": userStats,
	}, firestore.MergeAll)

	b.Set(fs.dailyStatDoc(userID, date), map[string]interface{}{
		"userId":    userID,
		"date":      date,
		"count":     firestore.Increment(delta),
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
}

// UserStats reads the denormalized per-user summary.
func (fs *FirestoreService) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	doc, err := fs.userDoc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return &models.UserStats{}, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %v", err)
	}

	var wrapper struct {
		Stats models.UserStats `firestore:"stats"`
	}
	if err := doc.DataTo(&wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user stats: %v", err)
	}

	return &wrapper.Stats, nil
}

// ListDailyStats returns the user's daily completion buckets, newest first.
func (fs *FirestoreService) ListDailyStats(ctx context.Context, userID string, limit int) ([]*models.DailyStat, error) {
	q := fs.client.Collection("dailyStats").
		Where("userId", "==", userID).
		OrderBy("date", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	var stats []*models.DailyStat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate daily stats: %v", err)
		}

		var stat models.DailyStat
		if err := doc.DataTo(&stat); err != nil {
			return nil, fmt.Errorf("failed to unmarshal daily stat: %v", err)
		}

		stats = append(stats, &stat)
	}

	return stats, nil
}

// ProjectCount returns the number of projects the user owns.
func (fs *FirestoreService) ProjectCount(ctx context.Context, userID string) (int64, error) {
	return fs.aggregateCount(ctx, fs.projects(userID).Query)
}

// CompletedTaskCount counts completed tasks across all projects via a
// server-side aggregation, never by fetching documents.
func (fs *FirestoreService) CompletedTaskCount(ctx context.Context, userID string) (int64, error) {
	return fs.aggregateCount(ctx, fs.tasks(userID).Where("completedAt", "!=", nil))
}

// CompletedDurationSum sums the duration minutes of completed tasks.
func (fs *FirestoreService) CompletedDurationSum(ctx context.Context, userID string) (int64, error) {
	q := fs.tasks(userID).Where("completedAt", "!=", nil)
	res, err := q.NewAggregationQuery().
		WithSum("duration", "total").
		Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sum durations: %v", err)
	}
	return aggregateInt(res, "total")
}

func (fs *FirestoreService) aggregateCount(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run count aggregation: %v", err)
	}
	return aggregateInt(res, "count")
}

func aggregateInt(res firestore.AggregationResult, alias string) (int64, error) {
	raw, ok := res[alias]
	if !ok {
		return 0, fmt.Errorf("aggregation result missing alias %q", alias)
	}
	value, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value type %T", raw)
	}
	switch v := value.ValueType.(type) {
	case *firestorepb.Value_IntegerValue:
		return v.IntegerValue, nil
	case *firestorepb.Value_DoubleValue:
		return int64(v.DoubleValue), nil
	default:
		return 0, fmt.Errorf("unexpected aggregation value %v", value)
	}
}
