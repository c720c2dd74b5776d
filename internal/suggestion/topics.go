package suggestion

import (
	"fmt"
	"strings"
)

// Topic is an entry in the "Popular Topics" menu. Topics with an action
// trigger that action instead of sending a prompt.
type Topic struct {
	Name        string   `json:"name"`
	Suggestions []string `json:"suggestions,omitempty"`
	Action      string   `json:"action,omitempty"`
}

const ActionAssessment = "assessment"

var topics = []Topic{
	{Name: "Scholarships", Suggestions: scholarshipSet},
	{Name: "Skills", Suggestions: skillSet},
	{Name: "Deadlines", Suggestions: []string{
		"What are my upcoming deadlines?",
		"How to manage application deadlines?",
		"Set a deadline reminder",
		"Prioritize my scholarship applications",
	}},
	{Name: "Applications", Suggestions: []string{
		"Tips for my scholarship application",
		"How to make my application stand out",
		"Common application mistakes to avoid",
		"Required documents for applications",
	}},
	{Name: "Assessment", Action: ActionAssessment},
}

func Topics() []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		t.Suggestions = clone(t.Suggestions)
		out[i] = t
	}
	return out
}

// FindTopic looks a topic up by name, case-insensitively.
func FindTopic(name string) (Topic, bool) {
	for _, t := range topics {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Topic{}, false
}

// Prompt is the message sent when a topic without an action is picked.
func (t Topic) Prompt() string {
	return fmt.Sprintf("Tell me about %s", strings.ToLower(t.Name))
}
