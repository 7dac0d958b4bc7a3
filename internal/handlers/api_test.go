package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fifteenmin/fifteenmin/internal/auth"
	"github.com/fifteenmin/fifteenmin/internal/models"
	"github.com/fifteenmin/fifteenmin/internal/storetest"
)

const testSecret = "test-secret"

type testServer struct {
	e     *echo.Echo
	store *storetest.MemStore
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := storetest.New()
	api := NewAPI(store)

	e := echo.New()
	g := e.Group("/api", auth.Middleware(testSecret))
	api.Register(g)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).
		SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	return &testServer{e: e, store: store, token: token}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCommandEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/command", `{"input":"new project Alpha"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	result := decode[models.CommandResult](t, rec)
	if !result.Success || result.Data == nil || result.Data.Project == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	projectID := result.Data.Project.ID

	// Duplicate project name comes back as a command failure, not an HTTP error.
	rec = s.do(t, http.MethodPost, "/api/command", `{"input":"new project Alpha"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	result = decode[models.CommandResult](t, rec)
	if result.Success || !strings.Contains(result.Message, "already exists") {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Project-scoped command with the session project supplied.
	rec = s.do(t, http.MethodPost, "/api/command", `{"input":"new feature Backend","projectId":"`+projectID+`"}`)
	result = decode[models.CommandResult](t, rec)
	if !result.Success || !strings.Contains(result.Message, "Created feature #1: Backend") {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Same command without the session project fails the precondition.
	rec = s.do(t, http.MethodPost, "/api/command", `{"input":"new feature Frontend"}`)
	result = decode[models.CommandResult](t, rec)
	if result.Success || !strings.Contains(result.Message, "No active project") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestProjectREST(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/projects", `{"name":"Alpha"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	project := decode[models.Project](t, rec)
	if project.Name != "Alpha" {
		t.Fatalf("name = %q", project.Name)
	}

	rec = s.do(t, http.MethodPost, "/api/projects", `{"name":"alpha"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/projects", "")
	projects := decode[[]models.Project](t, rec)
	if len(projects) != 1 {
		t.Fatalf("got %d projects", len(projects))
	}

	rec = s.do(t, http.MethodGet, "/api/projects/"+project.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/api/projects/"+project.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/projects/"+project.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", rec.Code)
	}
}

func TestTaskLifecycleREST(t *testing.T) {
	s := newTestServer(t)

	project := decode[models.Project](t, s.do(t, http.MethodPost, "/api/projects", `{"name":"Alpha"}`))
	feature := decode[models.Feature](t, s.do(t, http.MethodPost, "/api/features",
		`{"projectId":"`+project.ID+`","name":"Backend"}`))

	rec := s.do(t, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID+`","featureId":"`+feature.ID+`","description":"design schema"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	task := decode[models.Task](t, rec)
	if task.Duration != 15 {
		t.Fatalf("default duration = %d, want 15", task.Duration)
	}

	// Complete, then uncomplete, through PATCH.
	rec = s.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	completed := decode[models.Task](t, rec)
	if completed.CompletedAt == nil || completed.CompletedDate == "" {
		t.Fatal("task not completed")
	}

	// Completing twice is a conflict.
	rec = s.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":true}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double complete status = %d, want 409", rec.Code)
	}

	stats := decode[statsResponse](t, s.do(t, http.MethodGet, "/api/stats", ""))
	if stats.CompletedCount != 1 || stats.PendingCount != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	rec = s.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	stats = decode[statsResponse](t, s.do(t, http.MethodGet, "/api/stats", ""))
	if stats.CompletedCount != 0 || stats.PendingCount != 1 {
		t.Fatalf("stats after uncomplete = %+v", stats)
	}

	rec = s.do(t, http.MethodDelete, "/api/tasks/"+task.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	stats = decode[statsResponse](t, s.do(t, http.MethodGet, "/api/stats", ""))
	if stats.TotalCount != 0 {
		t.Fatalf("stats after delete = %+v", stats)
	}
}

func TestCreateTaskWithoutFeatureUsesGeneral(t *testing.T) {
	s := newTestServer(t)

	project := decode[models.Project](t, s.do(t, http.MethodPost, "/api/projects", `{"name":"Alpha"}`))

	rec := s.do(t, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID+`","description":"inbox zero"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	task := decode[models.Task](t, rec)

	features := decode[[]models.Feature](t, s.do(t, http.MethodGet, "/api/features?projectId="+project.ID, ""))
	if len(features) != 1 || features[0].Name != "General" {
		t.Fatalf("features = %+v", features)
	}
	if task.FeatureID != features[0].ID {
		t.Fatal("task not assigned to General")
	}
}

func TestListTasksByProject(t *testing.T) {
	s := newTestServer(t)

	project := decode[models.Project](t, s.do(t, http.MethodPost, "/api/projects", `{"name":"Alpha"}`))
	task := decode[models.Task](t, s.do(t, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID+`","description":"first"}`))
	decode[models.Task](t, s.do(t, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID+`","description":"second"}`))
	s.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":true}`)

	tasks := decode[[]models.Task](t, s.do(t, http.MethodGet, "/api/tasks?projectId="+project.ID, ""))
	if len(tasks) != 1 || tasks[0].Description != "second" {
		t.Fatalf("pending project tasks = %+v", tasks)
	}

	tasks = decode[[]models.Task](t, s.do(t, http.MethodGet,
		"/api/tasks?projectId="+project.ID+"&includeCompleted=true", ""))
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	rec := s.do(t, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSocialEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/streaks", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty streaks = %d %q", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/api/shared", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty shared = %d %q", rec.Code, rec.Body.String())
	}

	result := decode[models.CommandResult](t, s.do(t, http.MethodPost, "/api/command",
		`{"input":"streak with @sam"}`))
	if !result.Success {
		t.Fatalf("streak command failed: %q", result.Message)
	}

	streaks := decode[[]models.Streak](t, s.do(t, http.MethodGet, "/api/streaks", ""))
	if len(streaks) != 1 || streaks[0].PartnerName != "sam" {
		t.Fatalf("streaks = %+v", streaks)
	}
}

func TestDailyStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/stats/daily", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty daily stats = %q, want []", rec.Body.String())
	}

	project := decode[models.Project](t, s.do(t, http.MethodPost, "/api/projects", `{"name":"Alpha"}`))
	task := decode[models.Task](t, s.do(t, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID+`","description":"inbox zero"}`))
	s.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":true}`)

	stats := decode[[]models.DailyStat](t, s.do(t, http.MethodGet, "/api/stats/daily?days=7", ""))
	if len(stats) != 1 || stats[0].Count != 1 {
		t.Fatalf("daily stats = %+v", stats)
	}

	rec = s.do(t, http.MethodGet, "/api/stats/daily?days=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
