package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fifteenmin/fifteenmin/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a create collides with an existing name.
	ErrConflict = errors.New("conflict")
)

// FirestoreService is the entity store. Every entity lives under the owning
// user's document, so all queries are naturally scoped to one user. Daily
// stat buckets live in a flat top-level collection keyed userID_date.
type FirestoreService struct {
	client *firestore.Client
}

func NewFirestoreService(ctx context.Context, projectID string) (*FirestoreService, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %v", err)
	}

	return &FirestoreService{client: client}, nil
}

func (fs *FirestoreService) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreService) userDoc(userID string) *firestore.DocumentRef {
	return fs.client.Collection("users").Doc(userID)
}

func (fs *FirestoreService) projects(userID string) *firestore.CollectionRef {
	return fs.userDoc(userID).Collection("projects")
}

func (fs *FirestoreService) features(userID string) *firestore.CollectionRef {
	return fs.userDoc(userID).Collection("features")
}

func (fs *FirestoreService) tasks(userID string) *firestore.CollectionRef {
	return fs.userDoc(userID).Collection("tasks")
}

func (fs *FirestoreService) dailyStatDoc(userID, date string) *firestore.DocumentRef {
	return fs.client.Collection("dailyStats").Doc(userID + "_" + date)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// CreateProject creates a project with a zeroed completion counter. Names
// are unique per user, compared case-insensitively.
func (fs *FirestoreService) CreateProject(ctx context.Context, userID, name string) (*models.Project, error) {
	existing, err := fs.GetProjectByName(ctx, userID, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: project %q already exists", ErrConflict, existing.Name)
	}

	project := &models.Project{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if _, err := fs.projects(userID).Doc(project.ID).Set(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	return project, nil
}

// ListProjects returns the user's projects ordered newest-first.
func (fs *FirestoreService) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	iter := fs.projects(userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var projects []*models.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate projects: %v", err)
		}

		var project models.Project
		if err := doc.DataTo(&project); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project: %v", err)
		}

		projects = append(projects, &project)
	}

	return projects, nil
}

// GetProject returns a project by id.
func (fs *FirestoreService) GetProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	doc, err := fs.projects(userID).Doc(projectID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to get project: %v", err)
	}

	var project models.Project
	if err := doc.DataTo(&project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %v", err)
	}

	return &project, nil
}

// GetProjectByName matches case-insensitively. Firestore cannot compare
// case-insensitively server-side, so this scans the user's projects.
func (fs *FirestoreService) GetProjectByName(ctx context.Context, userID, name string) (*models.Project, error) {
	projects, err := fs.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: project %q", ErrNotFound, name)
}

// DeleteProject removes the project document. Children are not cascaded.
func (fs *FirestoreService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if _, err := fs.GetProject(ctx, userID, projectID); err != nil {
		return err
	}
	if _, err := fs.projects(userID).Doc(projectID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	return nil
}

// CreateFeature creates a feature in a project. Names are unique within the
// project, compared case-insensitively.
func (fs *FirestoreService) CreateFeature(ctx context.Context, userID, projectID, name string) (*models.Feature, error) {
	existing, err := fs.GetFeatureByName(ctx, userID, projectID, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: feature %q already exists", ErrConflict, existing.Name)
	}

	feature := &models.Feature{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if _, err := fs.features(userID).Doc(feature.ID).Set(ctx, feature); err != nil {
		return nil, fmt.Errorf("failed to create feature: %v", err)
	}

	return feature, nil
}

// ListFeatures returns a project's features in creation order. Feature
// ordinals are 1-based positions in this listing, never stored.
func (fs *FirestoreService) ListFeatures(ctx context.Context, userID, projectID string) ([]*models.Feature, error) {
	iter := fs.features(userID).
		Where("projectId", "==", projectID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	var features []*models.Feature
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate features: %v", err)
		}

		var feature models.Feature
		if err := doc.DataTo(&feature); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature: %v", err)
		}

		features = append(features, &feature)
	}

	return features, nil
}

// GetFeatureByName matches case-insensitively within a project.
func (fs *FirestoreService) GetFeatureByName(ctx context.Context, userID, projectID, name string) (*models.Feature, error) {
	features, err := fs.ListFeatures(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: feature %q", ErrNotFound, name)
}

// GetOrCreateGeneralFeature returns the project's "General" feature,
// creating it on first use. Tasks added without an explicit feature land
// here.
func (fs *FirestoreService) GetOrCreateGeneralFeature(ctx context.Context, userID, projectID string) (*models.Feature, error) {
	feature, err := fs.GetFeatureByName(ctx, userID, projectID, "General")
	if err == nil {
		return feature, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return fs.CreateFeature(ctx, userID, projectID, "General")
}

// DeleteFeature removes the feature document. Tasks are not cascaded.
func (fs *FirestoreService) DeleteFeature(ctx context.Context, userID, featureID string) error {
	doc, err := fs.features(userID).Doc(featureID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: feature %s", ErrNotFound, featureID)
		}
		return fmt.Errorf("failed to get feature: %v", err)
	}
	if _, err := doc.Ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete feature: %v", err)
	}
	return nil
}
