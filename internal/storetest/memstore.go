// Package storetest provides an in-memory entity store for tests. It
// mirrors the Firestore-backed store's behavior, including the delta-based
// counter maintenance, so command and handler logic can be exercised
// without a live document database.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fifteenmin/fifteenmin/internal/models"
	"github.com/fifteenmin/fifteenmin/internal/services"
)

type userData struct {
	projects []*models.Project
	features []*models.Feature
	tasks    []*models.Task
	streaks  []*models.Streak
	shared   []*models.SharedTask
	stats    models.UserStats
	daily    map[string]*models.DailyStat
}

// MemStore implements commands.Store in memory.
type MemStore struct {
	mu    sync.Mutex
	users map[string]*userData

	// FailWith, when set, makes every store call return this error. Used to
	// exercise the dispatcher's error path.
	FailWith error
}

func New() *MemStore {
	return &MemStore{users: map[string]*userData{}}
}

func (m *MemStore) user(userID string) *userData {
	u, ok := m.users[userID]
	if !ok {
		u = &userData{daily: map[string]*models.DailyStat{}}
		m.users[userID] = u
	}
	return u
}

func (m *MemStore) CreateProject(ctx context.Context, userID, name string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	u := m.user(userID)
	for _, p := range u.projects {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("%w: project %q already exists", services.ErrConflict, p.Name)
		}
	}

	project := &models.Project{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	u.projects = append(u.projects, project)
	out := *project
	return &out, nil
}

func (m *MemStore) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	u := m.user(userID)
	// Newest first.
	out := make([]*models.Project, 0, len(u.projects))
	for i := len(u.projects) - 1; i >= 0; i-- {
		p := *u.projects[i]
		out = append(out, &p)
	}
	return out, nil
}

func (m *MemStore) GetProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, p := range m.user(userID).projects {
		if p.ID == projectID {
			out := *p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: project %s", services.ErrNotFound, projectID)
}

func (m *MemStore) GetProjectByName(ctx context.Context, userID, name string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, p := range m.user(userID).projects {
		if strings.EqualFold(p.Name, name) {
			out := *p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: project %q", services.ErrNotFound, name)
}

func (m *MemStore) DeleteProject(ctx context.Context, userID, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	u := m.user(userID)
	for i, p := range u.projects {
		if p.ID == projectID {
			u.projects = append(u.projects[:i], u.projects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: project %s", services.ErrNotFound, projectID)
}

func (m *MemStore) CreateFeature(ctx context.Context, userID, projectID, name string) (*models.Feature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	u := m.user(userID)
	for _, f := range u.features {
		if f.ProjectID == projectID && strings.EqualFold(f.Name, name) {
			return nil, fmt.Errorf("%w: feature %q already exists", services.ErrConflict, f.Name)
		}
	}

	feature := &models.Feature{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	u.features = append(u.features, feature)
	out := *feature
	return &out, nil
}

func (m *MemStore) ListFeatures(ctx context.Context, userID, projectID string) ([]*models.Feature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.Feature
	for _, f := range m.user(userID).features {
		if f.ProjectID == projectID {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemStore) GetFeatureByName(ctx context.Context, userID, projectID, name string) (*models.Feature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, f := range m.user(userID).features {
		if f.ProjectID == projectID && strings.EqualFold(f.Name, name) {
			out := *f
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: feature %q", services.ErrNotFound, name)
}

func (m *MemStore) GetOrCreateGeneralFeature(ctx context.Context, userID, projectID string) (*models.Feature, error) {
	feature, err := m.GetFeatureByName(ctx, userID, projectID, "General")
	if err == nil {
		return feature, nil
	}
	return m.CreateFeature(ctx, userID, projectID, "General")
}

func (m *MemStore) DeleteFeature(ctx context.Context, userID, featureID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	u := m.user(userID)
	for i, f := range u.features {
		if f.ID == featureID {
			u.features = append(u.features[:i], u.features[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: feature %s", services.ErrNotFound, featureID)
}

func (m *MemStore) CreateTask(ctx context.Context, userID, projectID, featureID, description string, duration int) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if duration <= 0 {
		duration = 15
	}

	u := m.user(userID)
	task := &models.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		FeatureID:   featureID,
		Description: description,
		Duration:    duration,
		CreatedAt:   time.Now(),
	}
	u.tasks = append(u.tasks, task)
	u.stats.TotalPending++
	u.stats.LastUpdated = time.Now()

	out := *task
	return &out, nil
}

func (m *MemStore) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	task := m.findTask(userID, taskID)
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	out := *task
	return &out, nil
}

func (m *MemStore) findTask(userID, taskID string) *models.Task {
	for _, t := range m.user(userID).tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}

func (m *MemStore) ListPendingTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.Task
	for _, t := range m.user(userID).tasks {
		if t.FeatureID == featureID && t.Pending() {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemStore) ListCompletedTasks(ctx context.Context, userID, featureID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.Task
	for _, t := range m.user(userID).tasks {
		if t.FeatureID == featureID && !t.Pending() {
			c := *t
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(*out[j].CompletedAt)
	})
	return out, nil
}

func (m *MemStore) ListProjectTasks(ctx context.Context, userID, projectID string, includeCompleted bool) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.Task
	for _, t := range m.user(userID).tasks {
		if t.ProjectID != projectID {
			continue
		}
		if !includeCompleted && !t.Pending() {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemStore) CompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	task := m.findTask(userID, taskID)
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	if !task.Pending() {
		return nil, fmt.Errorf("%w: task already completed", services.ErrConflict)
	}

	now := time.Now()
	task.CompletedAt = &now
	task.CompletedDate = models.DateString(now)
	m.applyCompletionDeltas(userID, task, task.CompletedDate, 1, true)

	out := *task
	return &out, nil
}

func (m *MemStore) UncompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	task := m.findTask(userID, taskID)
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
	}
	if task.Pending() {
		return nil, fmt.Errorf("%w: task is not completed", services.ErrConflict)
	}

	previousDate := task.CompletedDate
	task.CompletedAt = nil
	task.CompletedDate = ""
	m.applyCompletionDeltas(userID, task, previousDate, -1, true)

	out := *task
	return &out, nil
}

func (m *MemStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	u := m.user(userID)
	for i, t := range u.tasks {
		if t.ID != taskID {
			continue
		}
		if t.Pending() {
			u.stats.TotalPending--
		} else {
			m.applyCompletionDeltas(userID, t, t.CompletedDate, -1, false)
		}
		u.tasks = append(u.tasks[:i], u.tasks[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: task %s", services.ErrNotFound, taskID)
}

// applyCompletionDeltas mirrors the batched counter protocol: project,
// feature, user summary, and daily bucket all move by the same delta.
func (m *MemStore) applyCompletionDeltas(userID string, task *models.Task, date string, delta int64, movePending bool) {
	u := m.user(userID)
	for _, p := range u.projects {
		if p.ID == task.ProjectID {
			p.TasksCompleted += delta
		}
	}
	for _, f := range u.features {
		if f.ID == task.FeatureID {
			f.TasksCompleted += delta
		}
	}

	u.stats.TotalCompleted += delta
	if movePending {
		u.stats.TotalPending -= delta
	}
	u.stats.LastUpdated = time.Now()

	bucket, ok := u.daily[date]
	if !ok {
		bucket = &models.DailyStat{UserID: userID, Date: date}
		u.daily[date] = bucket
	}
	bucket.Count += delta
	bucket.UpdatedAt = time.Now()
}

func (m *MemStore) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	stats := m.user(userID).stats
	return &stats, nil
}

func (m *MemStore) ListDailyStats(ctx context.Context, userID string, limit int) ([]*models.DailyStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var dates []string
	for d := range m.user(userID).daily {
		dates = append(dates, d)
	}
	// Newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}

	var out []*models.DailyStat
	for _, d := range dates {
		c := *m.user(userID).daily[d]
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemStore) ProjectCount(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	return int64(len(m.user(userID).projects)), nil
}

func (m *MemStore) CompletedTaskCount(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}

	var n int64
	for _, t := range m.user(userID).tasks {
		if !t.Pending() {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) CompletedDurationSum(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}

	var total int64
	for _, t := range m.user(userID).tasks {
		if !t.Pending() {
			total += int64(t.Duration)
		}
	}
	return total, nil
}

func (m *MemStore) CreateStreak(ctx context.Context, userID, partnerName string) (*models.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	streak := &models.Streak{
		ID:          uuid.New().String(),
		PartnerID:   uuid.New().String(),
		PartnerName: partnerName,
	}
	u := m.user(userID)
	u.streaks = append(u.streaks, streak)
	out := *streak
	return &out, nil
}

func (m *MemStore) ListStreaks(ctx context.Context, userID string) ([]*models.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.Streak
	for _, s := range m.user(userID).streaks {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemStore) CreateSharedTask(ctx context.Context, userID, taskID, description, partnerName string) (*models.SharedTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	shared := &models.SharedTask{
		ID:              uuid.New().String(),
		TaskID:          taskID,
		TaskDescription: description,
		SharedWith:      partnerName,
		SharedAt:        time.Now(),
	}
	u := m.user(userID)
	u.shared = append(u.shared, shared)
	out := *shared
	return &out, nil
}

func (m *MemStore) ListSharedTasks(ctx context.Context, userID string) ([]*models.SharedTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []*models.SharedTask
	for i := len(m.user(userID).shared) - 1; i >= 0; i-- {
		c := *m.user(userID).shared[i]
		out = append(out, &c)
	}
	return out, nil
}
