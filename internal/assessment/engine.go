// Package assessment runs the fixed five-question skill assessment.
package assessment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotActive     = errors.New("no assessment in progress")
	ErrComplete      = errors.New("assessment already complete")
	ErrSkipped       = errors.New("assessment was skipped")
	ErrUnknownOption = errors.New("unknown option for current question")
)

type Status string

const (
	StatusAsking   Status = "asking"
	StatusComplete Status = "complete"
	StatusSkipped  Status = "skipped"
)

// Answer records the option picked for one question.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Skill      string `json:"skill"`
	Score      int    `json:"score"`
}

// Results maps a skill to its score.
type Results map[string]int

// Engine walks the question catalog forward only. It is not safe for
// concurrent use; the conversation store serializes access.
type Engine struct {
	questions []Question
	index     int
	answers   []Answer
	status    Status
	results   Results
}

func NewEngine() *Engine {
	return newEngine(Questions())
}

func newEngine(questions []Question) *Engine {
	return &Engine{questions: questions, status: StatusAsking}
}

func (e *Engine) Status() Status { return e.status }

// Progress returns the zero-based index of the current question and the
// number of questions.
func (e *Engine) Progress() (int, int) { return e.index, len(e.questions) }

// Current returns the question awaiting an answer.
func (e *Engine) Current() (Question, bool) {
	if e.status != StatusAsking {
		return Question{}, false
	}
	return e.questions[e.index], true
}

func (e *Engine) Answers() []Answer {
	return append([]Answer(nil), e.answers...)
}

// Answer records optionID for the current question and advances.
func (e *Engine) Answer(optionID string) error {
	if err := e.terminalErr(); err != nil {
		return err
	}
	q := e.questions[e.index]
	var picked *Option
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			picked = &q.Options[i]
			break
		}
	}
	if picked == nil {
		return fmt.Errorf("%w: %q", ErrUnknownOption, optionID)
	}

	e.answers = append(e.answers, Answer{QuestionID: q.ID, Skill: q.Skill, Score: picked.Score})
	if e.index+1 < len(e.questions) {
		e.index++
		return nil
	}
	e.index = len(e.questions)
	e.status = StatusComplete
	e.results = make(Results, len(e.answers))
	for _, a := range e.answers {
		e.results[a.Skill] = a.Score
	}
	return nil
}

// Skip abandons the assessment. Results stays nil afterwards.
func (e *Engine) Skip() error {
	if err := e.terminalErr(); err != nil {
		return err
	}
	e.status = StatusSkipped
	return nil
}

// Results is nil unless the assessment completed.
func (e *Engine) Results() Results {
	if e.status != StatusComplete {
		return nil
	}
	out := make(Results, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}
	return out
}

func (e *Engine) terminalErr() error {
	switch e.status {
	case StatusComplete:
		return ErrComplete
	case StatusSkipped:
		return ErrSkipped
	}
	return nil
}

// FormatResults renders completed results as a chat reply, one line per
// skill in question order.
func FormatResults(results Results) string {
	lines := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, q := range catalog {
		if score, ok := results[q.Skill]; ok && !seen[q.Skill] {
			lines = append(lines, fmt.Sprintf("%s: %d/5", q.Skill, score))
			seen[q.Skill] = true
		}
	}
	var extra []string
	for skill := range results {
		if !seen[skill] {
			extra = append(extra, skill)
		}
	}
	sort.Strings(extra)
	for _, skill := range extra {
		lines = append(lines, fmt.Sprintf("%s: %d/5", skill, results[skill]))
	}
	return "Thank you for completing the skill assessment! Here are your results:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nBased on these results, I can help you find scholarships that match your strengths or suggest ways to improve in areas that need development. Would you like scholarship recommendations or skill improvement tips?"
}
