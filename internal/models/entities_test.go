package models

import (
	"testing"
	"time"
)

func TestDateString(t *testing.T) {
	ts := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC)
	if got := DateString(ts); got != "2025-03-09" {
		t.Fatalf("DateString = %q", got)
	}

	// Non-UTC times are normalized to UTC before deriving the day.
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts = time.Date(2025, time.March, 10, 1, 0, 0, 0, loc)
	if got := DateString(ts); got != "2025-03-09" {
		t.Fatalf("DateString = %q", got)
	}
}

func TestTaskPending(t *testing.T) {
	task := &Task{}
	if !task.Pending() {
		t.Fatal("task with nil completedAt should be pending")
	}

	now := time.Now()
	task.CompletedAt = &now
	if task.Pending() {
		t.Fatal("task with completedAt should not be pending")
	}
}
