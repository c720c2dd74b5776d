package assessment

// Option is one selectable answer. Score is 1..5.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Question is one step of the skill assessment.
type Question struct {
	ID      int      `json:"id"`
	Skill   string   `json:"skill"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

func options(texts ...string) []Option {
	ids := []string{"a", "b", "c", "d", "e"}
	out := make([]Option, len(texts))
	for i, text := range texts {
		out[i] = Option{ID: ids[i], Text: text, Score: len(texts) - i}
	}
	return out
}

var catalog = []Question{
	{
		ID:     1,
		Skill:  "Leadership",
		Prompt: "Have you held any leadership positions in clubs, organizations, or teams?",
		Options: options(
			"Yes, multiple leadership roles",
			"Yes, one significant leadership role",
			"Some informal leadership experience",
			"Rarely taken leadership roles",
			"No leadership experience yet",
		),
	},
	{
		ID:     2,
		Skill:  "Public Speaking",
		Prompt: "How comfortable are you with public speaking and presentations?",
		Options: options(
			"Very comfortable, regularly give presentations",
			"Comfortable with preparation",
			"Somewhat comfortable, occasional nerves",
			"Uncomfortable but can manage if needed",
			"Very uncomfortable with public speaking",
		),
	},
	{
		ID:     3,
		Skill:  "Problem Solving",
		Prompt: "How do you approach complex problems?",
		Options: options(
			"Systematically analyze and solve with creative approaches",
			"Break down into manageable parts and solve step by step",
			"Research solutions and apply methodically",
			"Seek help and guidance to work through problems",
			"Often feel overwhelmed by complex problems",
		),
	},
	{
		ID:     4,
		Skill:  "Time Management",
		Prompt: "How well do you manage deadlines and priorities?",
		Options: options(
			"Excellent planning, rarely miss deadlines",
			"Good planning, occasionally rushed but meet deadlines",
			"Adequate planning, sometimes struggle with priorities",
			"Often behind schedule, difficulty prioritizing",
			"Frequently miss deadlines, poor time management",
		),
	},
	{
		ID:     5,
		Skill:  "Teamwork",
		Prompt: "How effectively do you work in team settings?",
		Options: options(
			"Excellent collaborator, enhance team performance",
			"Good team player, contribute positively",
			"Work well in teams with occasional challenges",
			"Prefer individual work but can function in teams",
			"Struggle with teamwork and collaboration",
		),
	},
}

// Questions returns a copy of the fixed question catalog.
func Questions() []Question {
	out := make([]Question, len(catalog))
	for i, q := range catalog {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}
