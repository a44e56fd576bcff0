package scoring

import (
	"context"
	"strings"
)

var (
	technicalVocabulary = []string{"python", "javascript", "java", "react", "sql", "aws", "docker", "kubernetes"}
	softVocabulary      = []string{"leadership", "communication", "teamwork", "problem-solving", "analytical"}
)

// HeuristicEngine is the offline scorer used when no remote provider is
// configured. It is fully deterministic: identical input text always yields a
// byte-identical report.
type HeuristicEngine struct{}

func (HeuristicEngine) Provider() string { return ProviderHeuristic }

func (HeuristicEngine) Analyze(ctx context.Context, resumeText string, jobDescription string) Report {
	_ = ctx
	_ = jobDescription

	lower := strings.ToLower(resumeText)

	foundTechnical := matchVocabulary(lower, technicalVocabulary)
	foundSoft := matchVocabulary(lower, softVocabulary)

	years := len(resumeText) / 500
	if years > 15 {
		years = 15
	}

	overall := 50 + len(foundTechnical)*5 + len(foundSoft)*3 + years*2
	if overall > 100 {
		overall = 100
	}

	return Report{
		OverallScore: overall,
		Skills: SkillsBlock{
			TechnicalSkills: foundTechnical,
			SoftSkills:      foundSoft,
			SkillScore:      capScore(len(foundTechnical)*10 + len(foundSoft)*5),
		},
		Experience: ExperienceBlock{
			YearsOfExperience:  years,
			RelevantExperience: []string{"Experience extracted from resume"},
			ExperienceScore:    capScore(years * 6),
		},
		Education: EducationBlock{
			Degrees:        []string{"Degree information extracted"},
			Certifications: []string{"Certifications found"},
			EducationScore: 75,
		},
		Strengths:       []string{"Strong technical background", "Good communication skills"},
		Weaknesses:      []string{"Could improve in specific areas"},
		Recommendations: []string{"Consider additional certifications", "Expand project portfolio"},
		Summary:         "Candidate shows promise with relevant skills and experience",
		Provider:        ProviderHeuristic,
	}
}

func matchVocabulary(lowerText string, vocabulary []string) []string {
	found := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		if strings.Contains(lowerText, term) {
			found = append(found, term)
		}
	}
	return found
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	return score
}

var _ Engine = HeuristicEngine{}
