package commands

import (
	"strings"
	"testing"
)

// activeSession creates a project and returns a session with it active.
func activeSession(t *testing.T, r *Registry, userID, projectName string) Session {
	t.Helper()
	sess := Session{UserID: userID}
	result := run(t, r, sess, "new project "+projectName, true)
	sess.ProjectID = result.Data.Project.ID
	return sess
}

func TestNewFeature(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")

	result := run(t, r, sess, "new feature Backend", true)
	if !strings.Contains(result.Message, "Created feature #1: Backend") {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Data == nil || result.Data.Feature == nil {
		t.Fatal("expected data.feature")
	}

	result = run(t, r, sess, "new feature Frontend", true)
	if !strings.Contains(result.Message, "Created feature #2: Frontend") {
		t.Fatalf("message = %q", result.Message)
	}

	result = run(t, r, sess, "new feature backend", false)
	if !strings.Contains(result.Message, "already exists") {
		t.Fatalf("duplicate message = %q", result.Message)
	}
}

func TestNewFeatureRequiresActiveProject(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := run(t, r, Session{UserID: "u1"}, "new feature Backend", false)
	if !strings.Contains(result.Message, "No active project") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestNewFeatureRequiresName(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")

	result := run(t, r, sess, "new feature", false)
	if result.Message != "Feature name is required" {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestListFeatures(t *testing.T) {
	r, _ := newTestRegistry(t)
	sess := activeSession(t, r, "u1", "Alpha")

	result := run(t, r, sess, "features", true)
	if !strings.Contains(result.Message, "No features yet") {
		t.Fatalf("empty message = %q", result.Message)
	}

	run(t, r, sess, "new feature Backend", true)
	run(t, r, sess, "new feature Frontend", true)

	result = run(t, r, sess, "features", true)
	if !strings.Contains(result.Message, "[1] Backend") || !strings.Contains(result.Message, "[2] Frontend") {
		t.Fatalf("message = %q", result.Message)
	}
	if len(result.Data.Features) != 2 {
		t.Fatalf("got %d features", len(result.Data.Features))
	}
}

func TestFeatureOrdinalsStableAcrossProjects(t *testing.T) {
	r, _ := newTestRegistry(t)
	alpha := activeSession(t, r, "u1", "Alpha")
	run(t, r, alpha, "new feature Backend", true)

	// Adding features to another project must not renumber Alpha's.
	beta := activeSession(t, r, "u1", "Beta")
	run(t, r, beta, "new feature Infra", true)
	run(t, r, beta, "new feature Docs", true)

	result := run(t, r, alpha, "features", true)
	if !strings.Contains(result.Message, "[1] Backend") {
		t.Fatalf("message = %q", result.Message)
	}
	if len(result.Data.Features) != 1 {
		t.Fatalf("got %d features", len(result.Data.Features))
	}
}
