package catalog

import (
	"context"

	"learnleap/internal/models"
)

// Static serves a fixed in-memory snapshot.
type Static struct {
	data Data
}

func NewStatic(data Data) *Static {
	return &Static{data: data}
}

func (s *Static) Scholarships(context.Context) ([]models.Scholarship, error) {
	return append([]models.Scholarship(nil), s.data.Scholarships...), nil
}

func (s *Static) Skills(context.Context) ([]models.Skill, error) {
	out := make([]models.Skill, len(s.data.Skills))
	for i, sk := range s.data.Skills {
		sk.RelevantScholarships = append([]string(nil), sk.RelevantScholarships...)
		out[i] = sk
	}
	return out, nil
}

func (s *Static) Tasks(context.Context) ([]models.Task, error) {
	return append([]models.Task(nil), s.data.Tasks...), nil
}

func (s *Static) Profile(context.Context) (models.Profile, error) {
	p := s.data.Profile
	p.Strengths = append([]string(nil), p.Strengths...)
	p.AreasForImprovement = append([]string(nil), p.AreasForImprovement...)
	p.RecommendedScholarships = append([]string(nil), p.RecommendedScholarships...)
	return p, nil
}
