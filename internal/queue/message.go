package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job kinds understood by the worker.
const (
	KindParseResume   = "resume.parse"
	KindAnalyzeResume = "resume.analyze"
	KindSendEmail     = "email.send"
)

// Message is the payload sent to downstream queue consumers. TaskID doubles
// as the task handle returned to callers at enqueue time.
type Message struct {
	TaskID     string          `json:"taskId"`
	Kind       string          `json:"kind"`
	EnqueuedAt string          `json:"enqueuedAt"`
	Version    int             `json:"version"`
	Body       json.RawMessage `json:"body"`
}

// ParseResumePayload is the body of a resume.parse job.
type ParseResumePayload struct {
	ResumeID   string `json:"resumeId"`
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
}

// AnalyzeResumePayload is the body of a resume.analyze job.
type AnalyzeResumePayload struct {
	ResumeID       string `json:"resumeId"`
	JobDescription string `json:"jobDescription,omitempty"`
	Provider       string `json:"provider"`
	RequestedBy    string `json:"requestedBy,omitempty"`
}

// SendEmailPayload is the body of an email.send job.
type SendEmailPayload struct {
	Recipients []string       `json:"recipients"`
	Subject    string         `json:"subject"`
	Template   string         `json:"template"`
	Data       map[string]any `json:"data"`
}

// NewMessage builds a message with a fresh task id around the given body.
func NewMessage(kind string, body any) (Message, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s body: %w", kind, err)
	}
	return Message{
		TaskID:     uuid.NewString(),
		Kind:       kind,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
		Body:       raw,
	}, nil
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// DecodeBody parses a message body into the given payload struct.
func DecodeBody(msg Message, out any) error {
	if len(msg.Body) == 0 {
		return fmt.Errorf("message %s has empty body", msg.TaskID)
	}
	return json.Unmarshal(msg.Body, out)
}
