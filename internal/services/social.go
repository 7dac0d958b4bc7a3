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

// Streaks and shared tasks are bookkeeping only. Nothing advances a streak
// when tasks complete, and sharing a task delivers nothing to the partner.

func (fs *FirestoreService) streaks(userID string) *firestore.CollectionRef {
	return fs.userDoc(userID).Collection("streaks")
}

func (fs *FirestoreService) sharedTasks(userID string) *firestore.CollectionRef {
	return fs.userDoc(userID).Collection("sharedTasks")
}

// CreateStreak starts tracking a streak with a named partner.
func (fs *FirestoreService) CreateStreak(ctx context.Context, userID, partnerName string) (*models.Streak, error) {
	streak := &models.Streak{
		ID:          uuid.New().String(),
		PartnerID:   uuid.New().String(),
		PartnerName: partnerName,
	}

	if _, err := fs.streaks(userID).Doc(streak.ID).Set(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to create streak: %v", err)
	}

	return streak, nil
}

// ListStreaks returns the user's streaks.
func (fs *FirestoreService) ListStreaks(ctx context.Context, userID string) ([]*models.Streak, error) {
	iter := fs.streaks(userID).Documents(ctx)

	var streaks []*models.Streak
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate streaks: %v", err)
		}

		var streak models.Streak
		if err := doc.DataTo(&streak); err != nil {
			return nil, fmt.Errorf("failed to unmarshal streak: %v", err)
		}

		streaks = append(streaks, &streak)
	}

	return streaks, nil
}

// CreateSharedTask records that a task description was shared with a
// partner.
func (fs *FirestoreService) CreateSharedTask(ctx context.Context, userID, taskID, description, partnerName string) (*models.SharedTask, error) {
	shared := &models.SharedTask{
		ID:              uuid.New().String(),
		TaskID:          taskID,
		TaskDescription: description,
		SharedWith:      partnerName,
		SharedAt:        time.Now(),
	}

	if _, err := fs.sharedTasks(userID).Doc(shared.ID).Set(ctx, shared); err != nil {
		return nil, fmt.Errorf("failed to create shared task: %v", err)
	}

	return shared, nil
}

// ListSharedTasks returns the user's share records, newest first.
func (fs *FirestoreService) ListSharedTasks(ctx context.Context, userID string) ([]*models.SharedTask, error) {
	iter := fs.sharedTasks(userID).
		OrderBy("sharedAt", firestore.Desc).
		Documents(ctx)

	var shared []*models.SharedTask
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate shared tasks: %v", err)
		}

		var s models.SharedTask
		if err := doc.DataTo(&s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shared task: %v", err)
		}

		shared = append(shared, &s)
	}

	return shared, nil
}
