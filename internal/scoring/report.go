package scoring

// Report is the full analysis result for one resume. Degradation is encoded
// in the report itself rather than surfaced as an error: a parse failure
// produces a fallback report with the raw model output attached, a provider
// call failure produces a zeroed report with Error set.
type Report struct {
	OverallScore    int             `json:"overall_score"`
	Skills          SkillsBlock     `json:"skills"`
	Experience      ExperienceBlock `json:"experience"`
	Education       EducationBlock  `json:"education"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	Recommendations []string        `json:"recommendations"`
	Summary         string          `json:"summary"`
	JobMatch        *JobMatch       `json:"job_match,omitempty"`
	Provider        string          `json:"provider,omitempty"`
	RawResponse     string          `json:"raw_response,omitempty"`
	Note            string          `json:"note,omitempty"`
	Error           string          `json:"error,omitempty"`
}

type SkillsBlock struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	SkillScore      int      `json:"skill_score"`
}

type ExperienceBlock struct {
	YearsOfExperience  int      `json:"years_of_experience"`
	RelevantExperience []string `json:"relevant_experience"`
	ExperienceScore    int      `json:"experience_score"`
}

type EducationBlock struct {
	Degrees        []string `json:"degrees"`
	Certifications []string `json:"certifications"`
	EducationScore int      `json:"education_score"`
}

// JobMatch is present only when a job description was supplied with the
// analysis request.
type JobMatch struct {
	MatchScore     int      `json:"match_score"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	FitAssessment  string   `json:"fit_assessment"`
}

// Failed reports whether the provider call itself failed. Fallback reports
// (unparseable model output) are not failures.
func (r Report) Failed() bool {
	return r.Error != ""
}

// Degraded reports whether the model was reached but its output could not be
// parsed as a report.
func (r Report) Degraded() bool {
	return r.Note != ""
}

const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Tier buckets an overall score for notification rendering.
func Tier(score int) string {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// fallbackReport is returned when the model responded but no report could be
// parsed out of the response. Sub-scores are fixed at 70 and the raw output is
// retained for manual review.
func fallbackReport(provider, rawResponse string) Report {
	return Report{
		OverallScore: 70,
		Skills: SkillsBlock{
			TechnicalSkills: []string{"Skills analysis available in raw response"},
			SoftSkills:      []string{"Soft skills analysis available in raw response"},
			SkillScore:      70,
		},
		Experience: ExperienceBlock{
			YearsOfExperience:  3,
			RelevantExperience: []string{"Experience analysis available in raw response"},
			ExperienceScore:    70,
		},
		Education: EducationBlock{
			Degrees:        []string{"Education analysis available in raw response"},
			Certifications: []string{"Certification analysis available in raw response"},
			EducationScore: 70,
		},
		Strengths:       []string{"Analysis available in raw response"},
		Weaknesses:      []string{"Analysis available in raw response"},
		Recommendations: []string{"Analysis available in raw response"},
		Summary:         "Detailed analysis available in raw response",
		Provider:        provider,
		RawResponse:     rawResponse,
		Note:            "JSON parsing failed, check raw_response for detailed analysis",
	}
}

// errorReport is returned when the provider call failed outright.
func errorReport(provider, errMessage string) Report {
	return Report{
		Skills:          SkillsBlock{TechnicalSkills: []string{}, SoftSkills: []string{}},
		Experience:      ExperienceBlock{RelevantExperience: []string{}},
		Education:       EducationBlock{Degrees: []string{}, Certifications: []string{}},
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
		Summary:         "Analysis failed due to provider error",
		Provider:        provider,
		Error:           errMessage,
	}
}
