package catalog

import "learnleap/internal/models"

// DefaultData is the demo catalog the mock assistant ships with.
func DefaultData() Data {
	return Data{
		Scholarships: []models.Scholarship{
			{
				Name:         "STEM Excellence Scholarship",
				Amount:       "$5,000",
				Deadline:     "April 15, 2023",
				MatchScore:   92,
				Requirements: "3.5 GPA, STEM major, essay submission, two recommendation letters",
				Details:      "For students pursuing degrees in Science, Technology, Engineering, or Mathematics with demonstrated academic excellence.",
			},
			{
				Name:         "Future Leaders Fund",
				Amount:       "$2,500",
				Deadline:     "May 1, 2023",
				MatchScore:   87,
				Requirements: "Leadership experience, community service, personal statement",
				Details:      "Supports students who have demonstrated leadership potential through school or community activities.",
			},
			{
				Name:         "Community Service Award",
				Amount:       "$3,000",
				Deadline:     "May 30, 2023",
				MatchScore:   85,
				Requirements: "100+ hours of community service, essay about service impact",
				Details:      "Recognizes students who have made significant contributions to their communities through volunteer service.",
			},
		},
		Skills: []models.Skill{
			{
				Name:                 "Leadership",
				Importance:           models.ImportanceHigh,
				Description:          "Demonstrating ability to guide, motivate, and organize others",
				RelevantScholarships: []string{"Future Leaders Fund", "STEM Excellence Scholarship"},
				ImprovementTips:      "Join clubs, volunteer for leadership positions, organize events, mentor others",
			},
			{
				Name:                 "Public Speaking",
				Importance:           models.ImportanceMedium,
				Description:          "Ability to communicate effectively to groups and present ideas clearly",
				RelevantScholarships: []string{"Future Leaders Fund", "Community Service Award"},
				ImprovementTips:      "Join debate clubs, Toastmasters, practice presentations, record yourself speaking",
			},
			{
				Name:                 "Problem Solving",
				Importance:           models.ImportanceHigh,
				Description:          "Ability to analyze situations and develop effective solutions",
				RelevantScholarships: []string{"STEM Excellence Scholarship"},
				ImprovementTips:      "Take part in math competitions, coding challenges, puzzle-solving activities",
			},
			{
				Name:                 "Critical Thinking",
				Importance:           models.ImportanceHigh,
				Description:          "Evaluating information objectively and making reasoned judgments",
				RelevantScholarships: []string{"STEM Excellence Scholarship", "Future Leaders Fund"},
				ImprovementTips:      "Read diverse sources, practice analyzing arguments, engage in debates",
			},
			{
				Name:                 "Time Management",
				Importance:           models.ImportanceMedium,
				Description:          "Efficiently organizing tasks and priorities to meet deadlines",
				RelevantScholarships: []string{"All scholarships"},
				ImprovementTips:      "Use planning tools, break large tasks into smaller ones, set specific goals",
			},
		},
		Tasks: []models.Task{
			{Name: "Complete personal statement", Deadline: "2 days left", Priority: "high"},
			{Name: "Upload transcript", Deadline: "5 days left", Priority: "medium"},
			{Name: "Request recommendation letter", Deadline: "1 week left", Priority: "medium"},
		},
		Profile: models.Profile{
			Name:                    "Student",
			CompletionScore:         75,
			Strengths:               []string{"Leadership", "Problem Solving", "Critical Thinking"},
			AreasForImprovement:     []string{"Public Speaking", "Time Management"},
			RecommendedScholarships: []string{"STEM Excellence Scholarship", "Future Leaders Fund"},
		},
	}
}
