package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fifteenmin/fifteenmin/internal/models"
	"github.com/fifteenmin/fifteenmin/internal/services"
)

const noActiveProject = "No active project. Create or switch to a project first."

// new feature [name] - Create a feature in the active project
func (r *Registry) newFeature(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail(noActiveProject), nil
	}

	name := strings.Join(args, " ")
	if name == "" {
		return models.Fail("Feature name is required"), nil
	}

	feature, err := r.store.CreateFeature(ctx, sess.UserID, sess.ProjectID, name)
	if errors.Is(err, services.ErrConflict) {
		return models.Fail(fmt.Sprintf("Feature %q already exists in this project", name)), nil
	}
	if err != nil {
		return nil, err
	}

	ordinal, err := r.featureOrdinal(ctx, sess, feature.ID)
	if err != nil {
		return nil, err
	}

	return models.OK(
		fmt.Sprintf("Created feature #%d: %s", ordinal, name),
		&models.CommandData{Feature: feature},
	), nil
}

// features - List features of the active project in creation order
func (r *Registry) listFeatures(ctx context.Context, args []string, sess Session) (*models.CommandResult, error) {
	if sess.ProjectID == "" {
		return models.Fail(noActiveProject), nil
	}

	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return models.OK("No features yet. Create one with: new feature [name]", nil), nil
	}

	var lines []string
	for i, f := range features {
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, f.Name))
	}

	return models.OK(
		"Your features:\n"+strings.Join(lines, "\n"),
		&models.CommandData{Features: features},
	), nil
}

// featureOrdinal returns the 1-based creation-order position of a feature
// within the active project.
func (r *Registry) featureOrdinal(ctx context.Context, sess Session, featureID string) (int, error) {
	features, err := r.store.ListFeatures(ctx, sess.UserID, sess.ProjectID)
	if err != nil {
		return 0, err
	}
	for i, f := range features {
		if f.ID == featureID {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("feature %s missing from project listing", featureID)
}
