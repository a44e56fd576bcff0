package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"recruit-backend/internal/extract"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/reports"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/scoring"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
	"recruit-backend/internal/users"
)

// Pipeline states. The first three exits are terminal.
const (
	StateStarted           = "started"
	StateTextLoaded        = "text_loaded"
	StateScored            = "scored"
	StatePersisted         = "persisted"
	StateRecipientResolved = "recipient_resolved"
	StateNotified          = "notified"

	StateAbortedNoText           = "aborted_no_text"
	StateCompletedNoNotification = "completed_no_notification"
)

var (
	// ErrUnknownProvider rejects trigger requests naming a provider outside
	// the supported set.
	ErrUnknownProvider = errors.New("unknown analysis provider")
	// ErrNoExtractedText aborts a pipeline run whose resume has no extraction
	// artifact. The run is terminal; no report is written.
	ErrNoExtractedText = errors.New("no extracted text for resume")
	// ErrEnqueue signals that the broker refused the analysis job.
	ErrEnqueue = errors.New("failed to enqueue analysis job")
)

// Service orchestrates the analysis pipeline. The API process uses Trigger
// and GetReport; the worker process uses Process.
type Service struct {
	Resumes resumes.Repo
	Users   users.Repo
	Objects object.ObjectStore
	Reports reports.Store
	Queue   queue.Client

	// Engines holds the providers that were constructible from config at
	// process start, keyed by provider name.
	Engines         map[string]scoring.Engine
	DefaultProvider string

	Dispatcher   *notify.Dispatcher
	DashboardURL string
}

// Trigger validates the request and enqueues a resume.analyze job. The
// returned task id is the caller's only handle; analysis progress is observed
// through the report store.
func (s *Service) Trigger(ctx context.Context, resumeID, jobDescription, provider, requestedBy string) (string, error) {
	provider = strings.TrimSpace(provider)
	if provider != "" && !scoring.KnownProvider(provider) {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	if _, err := s.Resumes.GetByID(ctx, resumeID); err != nil {
		return "", err
	}

	msg, err := queue.NewMessage(queue.KindAnalyzeResume, queue.AnalyzeResumePayload{
		ResumeID:       resumeID,
		JobDescription: jobDescription,
		Provider:       provider,
		RequestedBy:    requestedBy,
	})
	if err != nil {
		return "", err
	}
	if err := s.Queue.Enqueue(ctx, msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	if err := s.Resumes.UpdateStatus(ctx, resumeID, resumes.StatusAnalysisRequested); err != nil {
		telemetry.Error("analysis.status_update_failed", map[string]any{
			"resume_id": resumeID,
			"err":       err.Error(),
		})
	}

	telemetry.Info("analysis.triggered", map[string]any{
		"resume_id": resumeID,
		"task_id":   msg.TaskID,
		"provider":  provider,
	})
	return msg.TaskID, nil
}

// GetReport returns the persisted report for a resume.
func (s *Service) GetReport(ctx context.Context, resumeID string) (scoring.Report, error) {
	return s.Reports.Get(ctx, resumeID)
}

// Process runs the pipeline for one resume.analyze job. Re-running for the
// same resume overwrites the prior report and re-sends the notification.
func (s *Service) Process(ctx context.Context, payload queue.AnalyzeResumePayload) error {
	started := time.Now()
	s.logState(payload.ResumeID, StateStarted)

	// 1. Load the extracted text. Absence aborts before the engine is ever
	// invoked; nothing is persisted.
	resume, text, err := s.loadText(ctx, payload.ResumeID)
	if err != nil {
		metrics.IncAnalysis(StateAbortedNoText)
		s.logState(payload.ResumeID, StateAbortedNoText)
		return err
	}
	s.logState(payload.ResumeID, StateTextLoaded)

	// 2. Score. Engine degradation is encoded in the report, this transition
	// cannot fail.
	engine, err := s.engineFor(payload.Provider)
	if err != nil {
		return err
	}
	report := engine.Analyze(ctx, text, payload.JobDescription)
	s.logState(payload.ResumeID, StateScored)

	// 3. Persist, overwriting any prior report for this resume.
	if err := s.Reports.Save(ctx, payload.ResumeID, report); err != nil {
		return fmt.Errorf("persist report resume=%s: %w", payload.ResumeID, err)
	}
	if err := s.Resumes.UpdateStatus(ctx, payload.ResumeID, resumes.StatusAnalysisComplete); err != nil {
		telemetry.Error("analysis.status_update_failed", map[string]any{
			"resume_id": payload.ResumeID,
			"err":       err.Error(),
		})
	}
	s.logState(payload.ResumeID, StatePersisted)

	// 4. Resolve the owning candidate. The report survives regardless.
	recipient, ok := s.resolveRecipient(ctx, resume)
	if !ok {
		metrics.IncAnalysis(StateCompletedNoNotification)
		s.logState(payload.ResumeID, StateCompletedNoNotification)
		metrics.ObserveAnalysisDuration(time.Since(started).Seconds())
		return nil
	}
	s.logState(payload.ResumeID, StateRecipientResolved)

	// 5. Notify. An enqueue failure never rolls back the report.
	s.notifyRecipient(ctx, resume, recipient, report)
	metrics.IncAnalysis(StateNotified)
	s.logState(payload.ResumeID, StateNotified)
	metrics.ObserveAnalysisDuration(time.Since(started).Seconds())
	return nil
}

// loadText prefers the denormalized text on the record and falls back to the
// extraction artifact in the object store.
func (s *Service) loadText(ctx context.Context, resumeID string) (resumes.Resume, string, error) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return resumes.Resume{}, "", fmt.Errorf("%w: %s", ErrNoExtractedText, resumeID)
	}

	if strings.TrimSpace(resume.ExtractedText) != "" {
		return resume, resume.ExtractedText, nil
	}

	key := resume.ExtractedTextKey
	if key == "" {
		key = extract.ExtractedKey(resume.StorageKey)
	}
	body, err := s.Objects.Open(ctx, key)
	if err != nil {
		return resumes.Resume{}, "", fmt.Errorf("%w: %s", ErrNoExtractedText, resumeID)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		return resumes.Resume{}, "", fmt.Errorf("%w: %s", ErrNoExtractedText, resumeID)
	}
	return resume, string(raw), nil
}

func (s *Service) engineFor(provider string) (scoring.Engine, error) {
	if provider == "" {
		provider = s.DefaultProvider
	}
	engine, ok := s.Engines[provider]
	if !ok {
		return nil, fmt.Errorf("%w: not configured: %q", ErrUnknownProvider, provider)
	}
	return engine, nil
}

// resolveRecipient walks resume -> user -> email. Any miss is non-fatal.
func (s *Service) resolveRecipient(ctx context.Context, resume resumes.Resume) (users.User, bool) {
	if resume.UserID == "" {
		telemetry.Info("analysis.no_owner", map[string]any{"resume_id": resume.ID})
		return users.User{}, false
	}
	user, err := s.Users.GetByID(ctx, resume.UserID)
	if err != nil {
		telemetry.Info("analysis.owner_not_found", map[string]any{
			"resume_id": resume.ID,
			"user_id":   resume.UserID,
		})
		return users.User{}, false
	}
	if strings.TrimSpace(user.Email) == "" {
		telemetry.Info("analysis.owner_has_no_email", map[string]any{
			"resume_id": resume.ID,
			"user_id":   resume.UserID,
		})
		return users.User{}, false
	}
	return user, true
}

func (s *Service) notifyRecipient(ctx context.Context, resume resumes.Resume, user users.User, report scoring.Report) {
	if s.Dispatcher == nil {
		return
	}

	name := user.FullName
	if name == "" {
		name = "Candidate"
	}
	data := map[string]any{
		"recipient_name": name,
		"resume_id":      resume.ID,
		"overall_score":  report.OverallScore,
		"score_class":    scoring.Tier(report.OverallScore),
		"summary":        report.Summary,
		"strengths":      report.Strengths,
		"provider":       report.Provider,
		"dashboard_url":  s.DashboardURL,
	}
	if report.JobMatch != nil {
		data["job_match_score"] = report.JobMatch.MatchScore
		data["missing_skills"] = report.JobMatch.MissingSkills
		data["fit_assessment"] = report.JobMatch.FitAssessment
	}

	_, err := s.Dispatcher.Dispatch(ctx, notify.DispatchRequest{
		ResumeID:   resume.ID,
		Recipients: []string{user.Email},
		Subject:    fmt.Sprintf("Resume Analysis Complete - %s", resume.ID),
		Template:   notify.TemplateAnalysisNotification,
		Data:       data,
	})
	if err != nil {
		telemetry.Error("analysis.notify_failed", map[string]any{
			"resume_id": resume.ID,
			"err":       err.Error(),
		})
	}
}

func (s *Service) logState(resumeID, state string) {
	telemetry.Info("analysis.state", map[string]any{
		"resume_id": resumeID,
		"state":     state,
	})
}
