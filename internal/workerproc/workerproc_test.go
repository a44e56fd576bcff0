package workerproc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/shared/storage/object/local"
	"recruit-backend/internal/users"
)

type fakeProcessor struct {
	payloads []queue.AnalyzeResumePayload
	err      error
}

func (p *fakeProcessor) Process(ctx context.Context, payload queue.AnalyzeResumePayload) error {
	p.payloads = append(p.payloads, payload)
	return p.err
}

type fakeEmailHandler struct {
	messages []queue.Message
}

func (h *fakeEmailHandler) HandleSendEmail(ctx context.Context, msg queue.Message) error {
	h.messages = append(h.messages, msg)
	return nil
}

func encode(t *testing.T, kind string, body any) string {
	t.Helper()
	msg, err := queue.NewMessage(kind, body)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	raw, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(raw)
}

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage("   "); err == nil {
		t.Fatal("empty body must error")
	} else if _, ok := err.(ErrEmptyBody); !ok {
		t.Fatalf("expected ErrEmptyBody, got %T", err)
	}

	if _, _, err := ParseMessage("{not json"); err == nil {
		t.Fatal("bad json must error")
	} else if _, ok := err.(ErrDecode); !ok {
		t.Fatalf("expected ErrDecode, got %T", err)
	}

	if _, _, err := ParseMessage(`{"taskId":"t-1","body":{}}`); err == nil {
		t.Fatal("missing kind must error")
	} else if _, ok := err.(ErrUnknownKind); !ok {
		t.Fatalf("expected ErrUnknownKind, got %T", err)
	}
}

func TestHandleMessageUnknownKind(t *testing.T) {
	body := encode(t, "resume.transmogrify", map[string]any{})
	err := HandleMessage(context.Background(), Deps{}, body)
	var unknown ErrUnknownKind
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestHandleMessageRoutesAnalyze(t *testing.T) {
	processor := &fakeProcessor{}
	deps := Deps{Analysis: processor}

	body := encode(t, queue.KindAnalyzeResume, queue.AnalyzeResumePayload{ResumeID: "r-1", Provider: "heuristic"})
	if err := HandleMessage(context.Background(), deps, body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(processor.payloads) != 1 || processor.payloads[0].ResumeID != "r-1" {
		t.Fatalf("payloads = %+v", processor.payloads)
	}
}

func TestHandleMessageAnalyzeRequiresResumeID(t *testing.T) {
	deps := Deps{Analysis: &fakeProcessor{}}
	body := encode(t, queue.KindAnalyzeResume, queue.AnalyzeResumePayload{})
	if err := HandleMessage(context.Background(), deps, body); err == nil {
		t.Fatal("missing resume id must fail")
	}
}

func TestHandleMessageRoutesEmail(t *testing.T) {
	mailer := &fakeEmailHandler{}
	deps := Deps{Mailer: mailer}

	body := encode(t, queue.KindSendEmail, queue.SendEmailPayload{Recipients: []string{"a@b.c"}, Template: "x.html"})
	if err := HandleMessage(context.Background(), deps, body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.messages) != 1 {
		t.Fatalf("messages = %d", len(mailer.messages))
	}
}

func TestHandleParseResumeFailureIsTerminal(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	repo := resumes.NewMemoryRepo()

	if _, err := store.SaveWithKey(ctx, "objects/u/resume.pdf", "application/pdf", strings.NewReader("not a real pdf")); err != nil {
		t.Fatalf("seed object: %v", err)
	}
	if err := repo.Create(ctx, resumes.Resume{ID: "r-1", StorageKey: "objects/u/resume.pdf", Status: resumes.StatusUploaded}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	deps := Deps{Objects: store, Resumes: repo}
	body := encode(t, queue.KindParseResume, queue.ParseResumePayload{ResumeID: "r-1", StorageKey: "objects/u/resume.pdf"})

	if err := HandleMessage(ctx, deps, body); err != nil {
		t.Fatalf("extraction failure must consume the job, got %v", err)
	}

	resume, _ := repo.GetByID(ctx, "r-1")
	if resume.Status != resumes.StatusFailed {
		t.Fatalf("status = %s, want %s", resume.Status, resumes.StatusFailed)
	}
}

func TestHandleParseResumeFailureSendsStatusUpdate(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	repo := resumes.NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	jobs := queue.NewMemoryQueue()
	dispatcher := &notify.Dispatcher{Queue: jobs, Records: notify.NewMemoryRecordStore()}

	if _, err := store.SaveWithKey(ctx, "objects/u/resume.pdf", "application/pdf", strings.NewReader("not a real pdf")); err != nil {
		t.Fatalf("seed object: %v", err)
	}
	if err := repo.Create(ctx, resumes.Resume{ID: "r-1", UserID: "u-1", FileName: "resume.pdf", StorageKey: "objects/u/resume.pdf", Status: resumes.StatusUploaded}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	if err := userRepo.Upsert(ctx, users.User{ID: "u-1", Email: "ada@example.com", FullName: "Ada Lovelace"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	deps := Deps{Objects: store, Resumes: repo, Users: userRepo, Notifier: dispatcher}
	body := encode(t, queue.KindParseResume, queue.ParseResumePayload{ResumeID: "r-1", StorageKey: "objects/u/resume.pdf"})

	if err := HandleMessage(ctx, deps, body); err != nil {
		t.Fatalf("extraction failure must consume the job, got %v", err)
	}

	pending := jobs.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one email job, got %d", len(pending))
	}
	var email queue.SendEmailPayload
	if err := queue.DecodeBody(pending[0], &email); err != nil {
		t.Fatalf("decode email body: %v", err)
	}
	if email.Template != notify.TemplateStatusUpdate {
		t.Fatalf("template = %s, want %s", email.Template, notify.TemplateStatusUpdate)
	}
	if len(email.Recipients) != 1 || email.Recipients[0] != "ada@example.com" {
		t.Fatalf("recipients = %v", email.Recipients)
	}
	if email.Data["file_name"] != "resume.pdf" {
		t.Fatalf("file_name = %v", email.Data["file_name"])
	}
}

func TestHandleAnalyzeTerminalFailuresConsumeJob(t *testing.T) {
	ctx := context.Background()

	for name, procErr := range map[string]error{
		"no extracted text":     fmt.Errorf("%w: r-1", analysis.ErrNoExtractedText),
		"provider unconfigured": fmt.Errorf("%w: not configured: %q", analysis.ErrUnknownProvider, "openai"),
	} {
		processor := &fakeProcessor{err: procErr}
		deps := Deps{Analysis: processor}

		body := encode(t, queue.KindAnalyzeResume, queue.AnalyzeResumePayload{ResumeID: "r-1"})
		if err := HandleMessage(ctx, deps, body); err != nil {
			t.Fatalf("%s: terminal failure must consume the job, got %v", name, err)
		}
		if len(processor.payloads) != 1 {
			t.Fatalf("%s: expected one process call, got %d", name, len(processor.payloads))
		}
	}
}

func TestHandleAnalyzeTransientFailureIsRetried(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("report store unavailable")}
	deps := Deps{Analysis: processor}

	body := encode(t, queue.KindAnalyzeResume, queue.AnalyzeResumePayload{ResumeID: "r-1"})
	err := HandleMessage(context.Background(), deps, body)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess so the delivery is redelivered, got %v", err)
	}
}

func TestComputeMeta(t *testing.T) {
	meta := ComputeMeta("hello")
	if meta.BodyLen != 5 || meta.BodySHA == "" {
		t.Fatalf("meta = %+v", meta)
	}
	if empty := ComputeMeta(""); empty.BodyLen != 0 || empty.BodySHA != "" {
		t.Fatalf("empty meta = %+v", empty)
	}
}
