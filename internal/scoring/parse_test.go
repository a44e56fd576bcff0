package scoring

import (
	"strings"
	"testing"
)

func TestExtractJSONObject_FencedResponse(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"overall_score\": 88, \"summary\": \"solid {candidate}\"}\n```\nLet me know."

	got, ok := extractJSONObject(raw)
	if !ok {
		t.Fatal("expected a JSON object to be found")
	}
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Fatalf("unexpected span: %q", got)
	}
	if !strings.Contains(got, "solid {candidate}") {
		t.Fatalf("braces inside string literals should not terminate the span: %q", got)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	if _, ok := extractJSONObject("no json here, sorry"); ok {
		t.Fatal("expected no object")
	}
	if _, ok := extractJSONObject("unbalanced { forever"); ok {
		t.Fatal("expected unbalanced braces to yield nothing")
	}
}

func TestDecodeReport_ValidResponse(t *testing.T) {
	raw := `prose before {"overall_score": 91, "skills": {"technical_skills": ["go"], "skill_score": 80}, "summary": "strong"} prose after`

	report := decodeReport(ProviderOpenAI, raw)
	if report.Failed() || report.Degraded() {
		t.Fatalf("expected clean report, got note=%q error=%q", report.Note, report.Error)
	}
	if report.OverallScore != 91 {
		t.Fatalf("overall score = %d, want 91", report.OverallScore)
	}
	if report.Provider != ProviderOpenAI {
		t.Fatalf("provider = %q", report.Provider)
	}
	if report.RawResponse != raw {
		t.Fatal("raw response should be retained on every decoded report")
	}
}

func TestDecodeReport_UnparseableFallsBack(t *testing.T) {
	raw := "The candidate looks great overall, I would rate them highly."

	report := decodeReport(ProviderGemini, raw)
	if report.Failed() {
		t.Fatal("fallback must not be a failure")
	}
	if !report.Degraded() {
		t.Fatal("fallback report should carry a note")
	}
	if report.OverallScore != 70 || report.Skills.SkillScore != 70 || report.Experience.ExperienceScore != 70 || report.Education.EducationScore != 70 {
		t.Fatalf("fallback sub-scores must all be 70, got %+v", report)
	}
	if report.RawResponse != raw {
		t.Fatal("fallback must retain the raw response")
	}
}

func TestErrorReport_Signature(t *testing.T) {
	report := errorReport(ProviderOpenAI, "connection refused")
	if !report.Failed() {
		t.Fatal("error report must report failure")
	}
	if report.OverallScore != 0 || report.Skills.SkillScore != 0 || report.Experience.ExperienceScore != 0 || report.Education.EducationScore != 0 {
		t.Fatalf("error report scores must all be zero, got %+v", report)
	}
	if len(report.Strengths) != 0 || len(report.Skills.TechnicalSkills) != 0 {
		t.Fatal("error report lists must be empty")
	}
	if report.Error != "connection refused" {
		t.Fatalf("error = %q", report.Error)
	}
}
