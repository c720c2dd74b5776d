package models

// Scholarship is a catalog record. Its JSON form is the scholarship card
// payload embedded in assistant replies.
type Scholarship struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Deadline     string `json:"deadline"`
	MatchScore   int    `json:"matchScore"`
	Requirements string `json:"requirements"`
	Details      string `json:"details,omitempty"`
}

// Skill is a catalog record. Its JSON form is the skill card payload.
type Skill struct {
	Name                 string   `json:"name"`
	Importance           string   `json:"importance"`
	Description          string   `json:"description"`
	RelevantScholarships []string `json:"relevantScholarships,omitempty"`
	ImprovementTips      string   `json:"improvementTips,omitempty"`
}

const (
	ImportanceHigh   = "High"
	ImportanceMedium = "Medium"
	ImportanceLow    = "Low"
)

// Task is an application to-do shown next to deadlines.
type Task struct {
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
}

// Profile summarizes the student the assistant is talking to.
type Profile struct {
	Name                    string   `json:"name"`
	CompletionScore         int      `json:"completionScore"`
	Strengths               []string `json:"strengths"`
	AreasForImprovement     []string `json:"areasForImprovement"`
	RecommendedScholarships []string `json:"recommendedScholarships"`
}
