package scoring

import "strings"

const systemPrompt = "You are an expert HR recruiter analyzing resumes. Provide detailed, accurate analysis in JSON format."

const reportSchema = `{
  "overall_score": <score from 1-100>,
  "skills": {
    "technical_skills": [<list of technical skills found>],
    "soft_skills": [<list of soft skills found>],
    "skill_score": <score from 1-100>
  },
  "experience": {
    "years_of_experience": <estimated years>,
    "relevant_experience": [<list of relevant experiences>],
    "experience_score": <score from 1-100>
  },
  "education": {
    "degrees": [<list of degrees>],
    "certifications": [<list of certifications>],
    "education_score": <score from 1-100>
  },
  "strengths": [<list of key strengths>],
  "weaknesses": [<list of areas for improvement>],
  "recommendations": [<list of recommendations>],
  "summary": "<brief summary of the candidate>"
}`

const jobMatchSchema = `"job_match": {
  "match_score": <score from 1-100>,
  "matching_skills": [<skills that match job requirements>],
  "missing_skills": [<skills required but not found in resume>],
  "fit_assessment": "<assessment of candidate fit for this role>"
}`

// buildPrompt assembles the analysis prompt for the remote providers. When a
// job description is supplied the schema gains a job_match block.
func buildPrompt(resumeText string, jobDescription string) string {
	var b strings.Builder
	b.WriteString("Analyze the following resume and provide a comprehensive evaluation:\n\n")
	b.WriteString("RESUME TEXT:\n")
	b.WriteString(resumeText)
	b.WriteString("\n\nProvide the analysis as a single JSON object in the following format:\n")
	b.WriteString(reportSchema)

	if strings.TrimSpace(jobDescription) != "" {
		b.WriteString("\n\nJOB DESCRIPTION:\n")
		b.WriteString(jobDescription)
		b.WriteString("\n\nAdditionally include a job matching field in the same JSON object:\n")
		b.WriteString(jobMatchSchema)
	}

	return b.String()
}
