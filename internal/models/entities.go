package models

import (
	"time"
)

// Project is a top-level unit of work owned by a user.
type Project struct {
	ID             string    `firestore:"id" json:"id"`
	UserID         string    `firestore:"userId" json:"userId"`
	Name           string    `firestore:"name" json:"name"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	TasksCompleted int64     `firestore:"tasksCompleted" json:"tasksCompleted"`
}

// Feature is a named subdivision of a project grouping related tasks.
type Feature struct {
	ID             string    `firestore:"id" json:"id"`
	ProjectID      string    `firestore:"projectId" json:"projectId"`
	Name           string    `firestore:"name" json:"name"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	TasksCompleted int64     `firestore:"tasksCompleted" json:"tasksCompleted"`
}

// Task is an atomic unit of work with a fixed duration. A nil CompletedAt
// means the task is pending; CompletedDate is the YYYY-MM-DD calendar day
// derived from CompletedAt and is set iff CompletedAt is set.
type Task struct {
	ID            string     `firestore:"id" json:"id"`
	ProjectID     string     `firestore:"projectId" json:"projectId"`
	FeatureID     string     `firestore:"featureId" json:"featureId"`
	Description   string     `firestore:"description" json:"description"`
	Duration      int        `firestore:"duration" json:"duration"`
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt"`
	CompletedAt   *time.Time `firestore:"completedAt" json:"completedAt"`
	CompletedDate string     `firestore:"completedDate,omitempty" json:"completedDate,omitempty"`
}

// Pending reports whether the task has not been completed yet.
func (t *Task) Pending() bool {
	return t.CompletedAt == nil
}

// UserStats is the denormalized per-user summary, stored on the user document.
type UserStats struct {
	TotalCompleted int64     `firestore:"totalCompleted" json:"totalCompleted"`
	TotalPending   int64     `firestore:"totalPending" json:"totalPending"`
	LastUpdated    time.Time `firestore:"lastUpdated" json:"lastUpdated"`
}

// DailyStat is a per-user, per-calendar-day completion bucket.
type DailyStat struct {
	UserID    string    `firestore:"userId" json:"userId"`
	Date      string    `firestore:"date" json:"date"`
	Count     int64     `firestore:"count" json:"count"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Streak tracks an accountability streak with a named partner. Streaks are
// created and listed only; nothing advances them automatically.
type Streak struct {
	ID                string `firestore:"id" json:"id"`
	PartnerID         string `firestore:"partnerId" json:"partnerId"`
	PartnerName       string `firestore:"partnerName" json:"partnerName"`
	CurrentStreak     int64  `firestore:"currentStreak" json:"currentStreak"`
	LongestStreak     int64  `firestore:"longestStreak" json:"longestStreak"`
	LastCompletedDate string `firestore:"lastCompletedDate" json:"lastCompletedDate"`
}

// SharedTask records that a task description was shared with a partner.
// There is no delivery mechanism behind it.
type SharedTask struct {
	ID              string    `firestore:"id" json:"id"`
	TaskID          string    `firestore:"taskId" json:"taskId"`
	TaskDescription string    `firestore:"taskDescription" json:"taskDescription"`
	SharedWith      string    `firestore:"sharedWith" json:"sharedWith"`
	SharedAt        time.Time `firestore:"sharedAt" json:"sharedAt"`
}

// StatsSummary is the aggregate payload behind the stats command.
type StatsSummary struct {
	TotalProjects  int64 `json:"totalProjects"`
	TotalCompleted int64 `json:"totalCompleted"`
	TotalMinutes   int64 `json:"totalMinutes"`
	JellyBeans     int64 `json:"jellyBeans"`
}

// DateString converts a timestamp to its YYYY-MM-DD calendar day in UTC.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
