package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"learnleap/internal/metrics"
	"learnleap/internal/models"
	"learnleap/internal/richcontent"
	"learnleap/internal/service/catalog"
)

// DefaultResponseDelay is the simulated thinking time of the mock assistant.
const DefaultResponseDelay = time.Second

const RuleDefault = "default"

// Rule pairs a predicate over the lower-cased message with the reply it
// produces. Rules are evaluated in order and the first match wins.
type Rule struct {
	Name    string
	Match   func(lower string) bool
	Respond func(ctx context.Context, kb catalog.Reader) (string, error)
}

// MockProvider answers from canned replies selected by keyword rules.
type MockProvider struct {
	rules    []Rule
	fallback Rule
	kb       catalog.Reader
	delay    time.Duration
	log      zerolog.Logger
}

func NewMockProvider(kb catalog.Reader, delay time.Duration, log zerolog.Logger) *MockProvider {
	return &MockProvider{
		rules:    DefaultRules(),
		fallback: Rule{Name: RuleDefault, Respond: fixed(replyDefault)},
		kb:       kb,
		delay:    delay,
		log:      log.With().Str("component", "mock_provider").Logger(),
	}
}

// Generate waits the configured delay, then replies with the first matching
// rule. Cancelling ctx aborts the wait.
func (p *MockProvider) Generate(ctx context.Context, message string, history []models.Message, page models.PageContext) (string, error) {
	if err := Sleep(ctx, p.delay); err != nil {
		return "", err
	}
	rule := p.Route(message)
	reply, err := rule.Respond(ctx, p.kb)
	if err != nil {
		return "", fmt.Errorf("rule %s: %w", rule.Name, err)
	}
	metrics.ResponsesTotal.WithLabelValues(rule.Name).Inc()
	p.log.Debug().
		Str("rule", rule.Name).
		Str("page", page.PageName).
		Int("history", len(history)).
		Msg("mock reply selected")
	return reply, nil
}

// Route returns the rule that handles message.
func (p *MockProvider) Route(message string) Rule {
	lower := strings.ToLower(message)
	for _, r := range p.rules {
		if r.Match(lower) {
			return r
		}
	}
	return p.fallback
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func fixed(reply string) func(context.Context, catalog.Reader) (string, error) {
	return func(context.Context, catalog.Reader) (string, error) {
		return reply, nil
	}
}

func withCard(template, tag string, lookup func(context.Context, catalog.Reader) (any, error)) func(context.Context, catalog.Reader) (string, error) {
	return func(ctx context.Context, kb catalog.Reader) (string, error) {
		if kb == nil {
			return "", catalog.ErrNotFound
		}
		v, err := lookup(ctx, kb)
		if err != nil {
			return "", err
		}
		card, err := richcontent.Wrap(tag, v)
		if err != nil {
			return "", err
		}
		return strings.Replace(template, cardPlaceholder, card, 1), nil
	}
}

// stemSkill returns the first skill that is either problem-solving or
// counts toward the STEM Excellence Scholarship.
func stemSkill(ctx context.Context, kb catalog.Reader) (any, error) {
	return catalog.FindSkill(ctx, kb, func(s models.Skill) bool {
		return strings.Contains(strings.ToLower(s.Name), "problem") ||
			slices.Contains(s.RelevantScholarships, "STEM Excellence Scholarship")
	})
}

func stemScholarship(ctx context.Context, kb catalog.Reader) (any, error) {
	return catalog.FindScholarship(ctx, kb, func(s models.Scholarship) bool {
		return strings.Contains(s.Name, "STEM")
	})
}

func leadershipSkill(ctx context.Context, kb catalog.Reader) (any, error) {
	return catalog.FindSkill(ctx, kb, catalog.SkillNamed("leadership"))
}

// DefaultRules is the keyword table of the mock assistant. Order matters:
// the showcase rule must stay ahead of the plain leadership rule.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "scholarship_match", Match: containsAll("scholarship", "match"), Respond: fixed(replyScholarshipMatch)},
		{Name: "improve_scholarship", Match: containsAll("improve", "scholarship"), Respond: fixed(replyImproveScholarship)},
		{Name: "deadline", Match: containsAll("deadline"), Respond: fixed(replyDeadlines)},
		{Name: "essay", Match: containsAny("essay", "personal statement"), Respond: fixed(replyEssay)},
		{Name: "showcase_leadership", Match: containsAll("showcase", "leadership"), Respond: fixed(replyShowcaseLeadership)},
		{Name: "valued_skills", Match: containsAll("skills", "valued"), Respond: fixed(replyValuedSkills)},
		{Name: "public_speaking", Match: containsAll("improve", "public speaking"), Respond: fixed(replyPublicSpeaking)},
		{Name: "stem_skill_card", Match: containsAll("skills", "stem"), Respond: withCard(replyStemSkill, richcontent.TagSkill, stemSkill)},
		{Name: "stem_scholarship_card", Match: containsAll("scholarship", "stem"), Respond: withCard(replyStemScholarship, richcontent.TagScholarship, stemScholarship)},
		{
			Name: "leadership_card",
			Match: func(s string) bool {
				return strings.Contains(s, "leadership") && !strings.Contains(s, "showcase")
			},
			Respond: withCard(replyLeadershipSkill, richcontent.TagSkill, leadershipSkill),
		},
		{Name: "about_scholarships", Match: containsAll("tell me about scholarships"), Respond: fixed(replyAboutScholarships)},
		{Name: "about_skills", Match: containsAll("tell me about skills"), Respond: fixed(replyAboutSkills)},
		{Name: "about_deadlines", Match: containsAll("tell me about deadlines"), Respond: fixed(replyAboutDeadlines)},
		{Name: "about_applications", Match: containsAll("tell me about applications"), Respond: fixed(replyAboutApplications)},
	}
}
