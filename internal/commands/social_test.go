package commands

import (
	"strings"
	"testing"
)

func TestStreak(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := Session{UserID: "u1"}

	result := run(t, r, sess, "streak", true)
	if !strings.Contains(result.Message, "No streaks yet") {
		t.Fatalf("message = %q", result.Message)
	}

	result = run(t, r, sess, "streak with @sam", true)
	if !strings.Contains(result.Message, "Started tracking streak with @sam") {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Data == nil || result.Data.Streak == nil {
		t.Fatal("expected data.streak")
	}
	if result.Data.Streak.CurrentStreak != 0 {
		t.Fatalf("new streak currentStreak = %d, want 0", result.Data.Streak.CurrentStreak)
	}

	result = run(t, r, sess, "streak", true)
	if !strings.Contains(result.Message, "@sam: 0 days (longest: 0)") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestStreakDoesNotAdvanceOnCompletion(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")
	run(t, r, sess, "streak with @sam", true)
	run(t, r, sess, "new feature Backend", true)
	run(t, r, sess, "add task design schema 1", true)
	run(t, r, sess, "complete 1.1", true)

	result := run(t, r, sess, "streak", true)
	if !strings.Contains(result.Message, "@sam: 0 days") {
		t.Fatalf("streak advanced on task completion: %q", result.Message)
	}
}

func TestStreakUsage(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := run(t, r, Session{UserID: "u1"}, "streak with @", false)
	if !strings.Contains(result.Message, "Usage: streak with") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestShareTask(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")
	run(t, r, sess, "new feature Backend", true)
	run(t, r, sess, "add task design schema 1", true)

	result := run(t, r, sess, "share 1.1 with @sam", true)
	if !strings.Contains(result.Message, `Shared "design schema" with @sam`) {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Data == nil || result.Data.SharedTask == nil {
		t.Fatal("expected data.sharedTask")
	}
	if result.Data.SharedTask.SharedWith != "sam" {
		t.Fatalf("sharedWith = %q", result.Data.SharedTask.SharedWith)
	}
}

func TestShareValidation(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")
	run(t, r, sess, "new feature Backend", true)

	result := run(t, r, Session{UserID: "u1"}, "share 1.1 with @sam", false)
	if result.Message != "No active project." {
		t.Fatalf("message = %q", result.Message)
	}

	for _, input := range []string{"share", "share 1.1", "share 1.1 with sam", "share 1.1 to @sam"} {
		result = run(t, r, sess, input, false)
		if !strings.Contains(result.Message, "Usage: share") {
			t.Fatalf("Execute(%q) message = %q", input, result.Message)
		}
	}

	result = run(t, r, sess, "share 1.1 with @sam", false)
	if !strings.Contains(result.Message, "Task 1.1 not found") {
		t.Fatalf("message = %q", result.Message)
	}
}
