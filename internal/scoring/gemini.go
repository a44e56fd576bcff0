package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"recruit-backend/internal/shared/telemetry"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiEngine scores resumes through the Gemini API via the Google GenAI
// client. Exactly one request per analysis; failures become error reports.
type geminiEngine struct {
	client *genai.Client
	model  string
}

func newGeminiEngine(ctx context.Context, apiKey, model string) (*geminiEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &geminiEngine{client: client, model: model}, nil
}

func (e *geminiEngine) Provider() string { return ProviderGemini }

func (e *geminiEngine) Analyze(ctx context.Context, resumeText string, jobDescription string) Report {
	content, err := e.generate(ctx, buildPrompt(resumeText, jobDescription))
	if err != nil {
		telemetry.Error("gemini analysis failed", map[string]any{"model": e.model, "error": err.Error()})
		return errorReport(ProviderGemini, err.Error())
	}
	return decodeReport(ProviderGemini, content)
}

func (e *geminiEngine) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(b.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

var _ Engine = (*geminiEngine)(nil)
