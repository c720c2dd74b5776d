// Package catalog serves the scholarship, skill and task knowledge the
// assistant answers from.
package catalog

import (
	"context"
	"errors"
	"strings"

	"learnleap/internal/models"
)

var ErrNotFound = errors.New("catalog entry not found")

// Reader is the read side of the catalog.
type Reader interface {
	Scholarships(ctx context.Context) ([]models.Scholarship, error)
	Skills(ctx context.Context) ([]models.Skill, error)
	Tasks(ctx context.Context) ([]models.Task, error)
	Profile(ctx context.Context) (models.Profile, error)
}

// Data is a complete catalog snapshot.
type Data struct {
	Scholarships []models.Scholarship
	Skills       []models.Skill
	Tasks        []models.Task
	Profile      models.Profile
}

// FindSkill returns the first skill, in catalog order, accepted by match.
func FindSkill(ctx context.Context, r Reader, match func(models.Skill) bool) (models.Skill, error) {
	skills, err := r.Skills(ctx)
	if err != nil {
		return models.Skill{}, err
	}
	for _, s := range skills {
		if match(s) {
			return s, nil
		}
	}
	return models.Skill{}, ErrNotFound
}

// FindScholarship returns the first scholarship, in catalog order, accepted
// by match.
func FindScholarship(ctx context.Context, r Reader, match func(models.Scholarship) bool) (models.Scholarship, error) {
	list, err := r.Scholarships(ctx)
	if err != nil {
		return models.Scholarship{}, err
	}
	for _, s := range list {
		if match(s) {
			return s, nil
		}
	}
	return models.Scholarship{}, ErrNotFound
}

// SkillNamed matches a skill by case-insensitive name.
func SkillNamed(name string) func(models.Skill) bool {
	return func(s models.Skill) bool {
		return strings.EqualFold(s.Name, name)
	}
}
