package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learnleap/internal/models"
)

const (
	profileID = 1

	traitStrength    = "strength"
	traitImprovement = "improvement"
	traitRecommended = "recommended"
)

// Service reads the catalog from the tables created by storage.Migrate.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Scholarships(ctx context.Context) ([]models.Scholarship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, amount, deadline, match_score, requirements, details FROM scholarships ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	defer rows.Close()

	var out []models.Scholarship
	for rows.Next() {
		var sch models.Scholarship
		if err := rows.Scan(&sch.Name, &sch.Amount, &sch.Deadline, &sch.MatchScore, &sch.Requirements, &sch.Details); err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		out = append(out, sch)
	}
	return out, rows.Err()
}

func (s *Service) Skills(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, importance, description, improvement_tips FROM skills ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	var (
		ids    []int64
		skills []models.Skill
	)
	for rows.Next() {
		var (
			id    int64
			skill models.Skill
		)
		if err := rows.Scan(&id, &skill.Name, &skill.Importance, &skill.Description, &skill.ImprovementTips); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		ids = append(ids, id)
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		names, err := s.relevantScholarships(ctx, id)
		if err != nil {
			return nil, err
		}
		skills[i].RelevantScholarships = names
	}
	return skills, nil
}

func (s *Service) relevantScholarships(ctx context.Context, skillID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scholarship_name FROM skill_scholarships WHERE skill_id = ? ORDER BY position ASC`, skillID)
	if err != nil {
		return nil, fmt.Errorf("list skill scholarships: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan skill scholarship: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Service) Tasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, deadline, priority FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.Name, &task.Deadline, &task.Priority); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (s *Service) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT name, completion_score FROM profiles WHERE id = ?`, profileID,
	).Scan(&p.Name, &p.CompletionScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, ErrNotFound
		}
		return p, fmt.Errorf("get profile: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, value FROM profile_traits WHERE profile_id = ? ORDER BY kind, position ASC`, profileID)
	if err != nil {
		return p, fmt.Errorf("list profile traits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return p, fmt.Errorf("scan profile trait: %w", err)
		}
		switch kind {
		case traitStrength:
			p.Strengths = append(p.Strengths, value)
		case traitImprovement:
			p.AreasForImprovement = append(p.AreasForImprovement, value)
		case traitRecommended:
			p.RecommendedScholarships = append(p.RecommendedScholarships, value)
		}
	}
	return p, rows.Err()
}

// Seed loads data into empty catalog tables. It reports whether anything was
// written; a catalog that already has scholarships is left alone.
func (s *Service) Seed(ctx context.Context, data Data) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scholarships`).Scan(&count); err != nil {
		return false, fmt.Errorf("count scholarships: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for i, sch := range data.Scholarships {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scholarships (name, amount, deadline, match_score, requirements, details, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sch.Name, sch.Amount, sch.Deadline, sch.MatchScore, sch.Requirements, sch.Details, i,
		); err != nil {
			return false, fmt.Errorf("seed scholarship %s: %w", sch.Name, err)
		}
	}
	for i, skill := range data.Skills {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO skills (name, importance, description, improvement_tips, position) VALUES (?, ?, ?, ?, ?)`,
			skill.Name, skill.Importance, skill.Description, skill.ImprovementTips, i,
		)
		if err != nil {
			return false, fmt.Errorf("seed skill %s: %w", skill.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("skill id: %w", err)
		}
		for j, name := range skill.RelevantScholarships {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO skill_scholarships (skill_id, scholarship_name, position) VALUES (?, ?, ?)`,
				id, name, j,
			); err != nil {
				return false, fmt.Errorf("seed skill scholarship: %w", err)
			}
		}
	}
	for i, task := range data.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (name, deadline, priority, position) VALUES (?, ?, ?, ?)`,
			task.Name, task.Deadline, task.Priority, i,
		); err != nil {
			return false, fmt.Errorf("seed task %s: %w", task.Name, err)
		}
	}

	p := data.Profile
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (id, name, completion_score) VALUES (?, ?, ?)`,
		profileID, p.Name, p.CompletionScore,
	); err != nil {
		return false, fmt.Errorf("seed profile: %w", err)
	}
	traits := []struct {
		kind   string
		values []string
	}{
		{traitStrength, p.Strengths},
		{traitImprovement, p.AreasForImprovement},
		{traitRecommended, p.RecommendedScholarships},
	}
	for _, tr := range traits {
		for i, v := range tr.values {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO profile_traits (profile_id, kind, value, position) VALUES (?, ?, ?, ?)`,
				profileID, tr.kind, v, i,
			); err != nil {
				return false, fmt.Errorf("seed profile trait: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}
