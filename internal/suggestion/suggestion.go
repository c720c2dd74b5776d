// Package suggestion supplies the quick-reply chips shown under the chat.
package suggestion

import (
	"strings"

	"learnleap/internal/models"
)

const maxRouteSuggestions = 5

var (
	scholarshipSet = []string{
		"Find scholarships matching my profile",
		"How can I improve my scholarship chances?",
		"What are the upcoming scholarship deadlines?",
		"Tips for writing scholarship essays",
	}
	skillSet = []string{
		"How can I showcase my leadership skills?",
		"What skills are most valued for scholarships?",
		"How to improve my public speaking skills",
		"Skills needed for STEM scholarships",
	}
	globalDefaults = []string{
		"How can I improve my scholarship matches?",
		"What are the upcoming deadlines?",
	}
	fallbackRoute = []string{
		"I'm looking for scholarships",
		"How does LearnLeap work?",
	}
	byRoute = map[string][]string{
		"/": {
			"Tell me about the latest scholarship opportunities",
			"How do I get started with LearnLeap?",
			"What are the most popular scholarships right now?",
		},
		"/dashboard": {
			"How can I complete my profile?",
			"Explain my scholarship stats",
			"What tasks should I prioritize?",
			"How can I increase my match percentage?",
		},
		"/scholarships": {
			"Which scholarship has the best match for me?",
			"What are the requirements for STEM Excellence Scholarship?",
			"Help me filter scholarships by deadline",
			"What documents do I need for applications?",
		},
		"/fundraising": {
			"How can I start a fundraising campaign?",
			"What are the best practices for fundraising?",
			"How do I share my fundraising page?",
			"What should I include in my fundraising story?",
		},
		"/profile": {
			"What skills should I highlight on my profile?",
			"How do I add extracurricular activities?",
			"What academic achievements matter most?",
			"How can I make my personal statement stand out?",
		},
	}
)

// ForRoute returns the suggestions for a host page route followed by the
// global defaults, capped at five. Unknown routes get a generic list.
func ForRoute(route string) []string {
	specific, ok := byRoute[route]
	if !ok {
		specific = fallbackRoute
	}
	out := make([]string, 0, len(specific)+len(globalDefaults))
	out = append(out, specific...)
	out = append(out, globalDefaults...)
	if len(out) > maxRouteSuggestions {
		out = out[:maxRouteSuggestions]
	}
	return out
}

// Contextual picks the skill set when lastUserMessage mentions a skill and
// the scholarship set otherwise.
func Contextual(lastUserMessage string) []string {
	if strings.Contains(strings.ToLower(lastUserMessage), "skill") {
		return clone(skillSet)
	}
	return clone(scholarshipSet)
}

// Initial is the mix shown before the student has said anything.
func Initial() []string {
	out := make([]string, 0, 4)
	out = append(out, scholarshipSet[:2]...)
	return append(out, skillSet[:2]...)
}

// Visible returns the chips the widget should render for state, or nil when
// none should be shown.
func Visible(state models.ConversationState) []string {
	last, ok := state.LastMessage()
	if !state.ShowSuggestions || !ok || last.Role != models.RoleAssistant {
		return nil
	}
	if len(state.Messages) <= 2 {
		return Initial()
	}
	return Contextual(state.Messages[len(state.Messages)-2].Content)[:3]
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
