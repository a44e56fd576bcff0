package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/extract"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
	"recruit-backend/internal/users"
)

// Processor is the subset of the analysis service the worker needs.
type Processor interface {
	Process(ctx context.Context, payload queue.AnalyzeResumePayload) error
}

// EmailHandler is the subset of the mailer the worker needs.
type EmailHandler interface {
	HandleSendEmail(ctx context.Context, msg queue.Message) error
}

// RecordUpdater is the subset of the resumes repo the extraction job needs.
type RecordUpdater interface {
	GetByID(ctx context.Context, resumeID string) (resumes.Resume, error)
	UpdateExtraction(ctx context.Context, resumeID, extractedKey, text string) error
	UpdateStatus(ctx context.Context, resumeID, status string) error
}

// UserResolver looks up the owning user for status notifications.
type UserResolver interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// Deps carries everything the worker needs to process messages.
type Deps struct {
	Objects  object.ObjectStore
	Resumes  RecordUpdater
	Users    UserResolver
	Analysis Processor
	Mailer   EmailHandler
	Notifier *notify.Dispatcher
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrUnknownKind indicates a message kind no handler is registered for.
type ErrUnknownKind struct {
	Kind   string
	TaskID string
}

func (e ErrUnknownKind) Error() string { return "unknown message kind: " + e.Kind }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	Kind   string
	TaskID string
	Err    error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process " + e.Kind
	}
	return "process " + e.Kind + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.Kind) == "" {
		return msg, meta, ErrUnknownKind{TaskID: msg.TaskID}
	}
	return msg, meta, nil
}

// HandleMessage parses a queue payload and dispatches it by kind. Jobs run at
// most once per delivery; a returned error is logged by the caller, never
// retried here.
func HandleMessage(ctx context.Context, deps Deps, body string) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	return Dispatch(ctx, deps, msg)
}

// Dispatch routes an already-parsed message to its handler.
func Dispatch(ctx context.Context, deps Deps, msg queue.Message) error {
	var err error
	switch msg.Kind {
	case queue.KindParseResume:
		err = handleParseResume(ctx, deps, msg)
	case queue.KindAnalyzeResume:
		err = handleAnalyzeResume(ctx, deps, msg)
	case queue.KindSendEmail:
		err = handleSendEmail(ctx, deps, msg)
	default:
		metrics.IncQueueJob(msg.Kind, "unknown")
		return ErrUnknownKind{Kind: msg.Kind, TaskID: msg.TaskID}
	}

	if err != nil {
		metrics.IncQueueJob(msg.Kind, "failed")
		return ErrProcess{Kind: msg.Kind, TaskID: msg.TaskID, Err: err}
	}
	metrics.IncQueueJob(msg.Kind, "ok")
	return nil
}

// handleParseResume extracts text from the stored PDF. An unreadable document
// is terminal: the resume is marked failed, the job is consumed, nothing
// retries it.
func handleParseResume(ctx context.Context, deps Deps, msg queue.Message) error {
	var payload queue.ParseResumePayload
	if err := queue.DecodeBody(msg, &payload); err != nil {
		return err
	}

	text, err := extract.ExtractText(ctx, deps.Objects, payload.StorageKey)
	if err != nil {
		metrics.IncExtraction("failed")
		telemetry.Error("extract.failed", map[string]any{
			"resume_id": payload.ResumeID,
			"task_id":   msg.TaskID,
			"err":       err.Error(),
		})
		if deps.Resumes != nil {
			if err := deps.Resumes.UpdateStatus(ctx, payload.ResumeID, resumes.StatusFailed); err != nil {
				telemetry.Error("extract.mark_failed", map[string]any{
					"resume_id": payload.ResumeID,
					"err":       err.Error(),
				})
			}
		}
		notifyExtractionFailed(ctx, deps, payload)
		return nil
	}

	if deps.Resumes != nil {
		key := extract.ExtractedKey(payload.StorageKey)
		if err := deps.Resumes.UpdateExtraction(ctx, payload.ResumeID, key, text); err != nil {
			return err
		}
	}
	metrics.IncExtraction("ok")
	telemetry.Info("extract.completed", map[string]any{
		"resume_id":  payload.ResumeID,
		"task_id":    msg.TaskID,
		"text_bytes": len(text),
	})
	return nil
}

func handleAnalyzeResume(ctx context.Context, deps Deps, msg queue.Message) error {
	if deps.Analysis == nil {
		return errors.New("analysis service not configured")
	}
	var payload queue.AnalyzeResumePayload
	if err := queue.DecodeBody(msg, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.ResumeID) == "" {
		return errors.New("analyze job missing resume id")
	}

	err := deps.Analysis.Process(ctx, payload)
	if err == nil {
		return nil
	}
	// Missing extracted text and unconfigured providers are terminal for this
	// resume; redelivering the job cannot change the outcome, so consume it.
	if errors.Is(err, analysis.ErrNoExtractedText) || errors.Is(err, analysis.ErrUnknownProvider) {
		telemetry.Error("analysis.terminal", map[string]any{
			"resume_id": payload.ResumeID,
			"task_id":   msg.TaskID,
			"err":       err.Error(),
		})
		return nil
	}
	return err
}

// notifyExtractionFailed sends a status-update email to the resume owner so
// they know to re-upload a readable document. Every miss here is non-fatal;
// the extraction failure itself has already been recorded.
func notifyExtractionFailed(ctx context.Context, deps Deps, payload queue.ParseResumePayload) {
	if deps.Notifier == nil || deps.Resumes == nil || deps.Users == nil {
		return
	}

	resume, err := deps.Resumes.GetByID(ctx, payload.ResumeID)
	if err != nil || resume.UserID == "" {
		return
	}
	user, err := deps.Users.GetByID(ctx, resume.UserID)
	if err != nil || user.Email == "" {
		return
	}

	name := user.FullName
	if name == "" {
		name = user.Email
	}
	_, err = deps.Notifier.Dispatch(ctx, notify.DispatchRequest{
		ResumeID:   resume.ID,
		Recipients: []string{user.Email},
		Subject:    "Resume Processing Update",
		Template:   notify.TemplateStatusUpdate,
		Data: map[string]any{
			"candidate_name": name,
			"file_name":      resume.FileName,
			"status":         "Processing failed",
			"status_message": "We could not read text from your resume. Please upload a readable PDF document.",
			"next_steps":     []string{"Re-export your resume as a text-based PDF", "Upload the new file"},
			"recruiter_name": "The Recruitment Team",
		},
	})
	if err != nil {
		telemetry.Error("extract.status_notify_failed", map[string]any{
			"resume_id": payload.ResumeID,
			"err":       err.Error(),
		})
	}
}

func handleSendEmail(ctx context.Context, deps Deps, msg queue.Message) error {
	if deps.Mailer == nil {
		return errors.New("mailer not configured")
	}
	return deps.Mailer.HandleSendEmail(ctx, msg)
}
