package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recruit-backend/internal/shared/telemetry"
)

const openAIURL = "https://api.openai.com/v1/chat/completions"

const defaultOpenAIModel = "gpt-4o-mini"

// openAIEngine scores resumes through the OpenAI Chat Completions API.
// Exactly one request per analysis; failures become error reports.
type openAIEngine struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func newOpenAIEngine(apiKey, model string) (*openAIEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenAIModel
	}
	return &openAIEngine{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (e *openAIEngine) Provider() string { return ProviderOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (e *openAIEngine) Analyze(ctx context.Context, resumeText string, jobDescription string) Report {
	content, err := e.complete(ctx, buildPrompt(resumeText, jobDescription))
	if err != nil {
		telemetry.Error("openai analysis failed", map[string]any{"model": e.model, "error": err.Error()})
		return errorReport(ProviderOpenAI, err.Error())
	}
	return decodeReport(ProviderOpenAI, content)
}

func (e *openAIEngine) complete(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.3)
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: &temp,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	if parsed.Usage != nil {
		telemetry.Info("openai usage", map[string]any{
			"model":             e.model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"total_tokens":      parsed.Usage.TotalTokens,
		})
	}
	return content, nil
}

var _ Engine = (*openAIEngine)(nil)
