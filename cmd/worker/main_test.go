package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/workerproc"
)

type recordingConsumer struct {
	deleted []string
}

func (f *recordingConsumer) Receive(ctx context.Context, wait time.Duration) ([]queue.Delivery, error) {
	return nil, nil
}

func (f *recordingConsumer) Delete(ctx context.Context, handle string) error {
	f.deleted = append(f.deleted, handle)
	return nil
}

type fakeProcessor struct {
	err   error
	calls int
}

func (f *fakeProcessor) Process(ctx context.Context, payload queue.AnalyzeResumePayload) error {
	f.calls++
	return f.err
}

func encodeAnalyze(t *testing.T, resumeID string) string {
	t.Helper()
	msg, err := queue.NewMessage(queue.KindAnalyzeResume, queue.AnalyzeResumePayload{ResumeID: resumeID})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	raw, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	return string(raw)
}

func TestHandleDeliveryDeletesOnSuccess(t *testing.T) {
	consumer := &recordingConsumer{}
	proc := &fakeProcessor{}
	deps := workerproc.Deps{Analysis: proc}

	handleDelivery(context.Background(), deps, consumer, queue.Delivery{
		Handle: "h-1",
		Body:   encodeAnalyze(t, "resume-1"),
	})

	if proc.calls != 1 {
		t.Fatalf("expected one process call, got %d", proc.calls)
	}
	if len(consumer.deleted) != 1 || consumer.deleted[0] != "h-1" {
		t.Fatalf("expected delete of h-1, got %v", consumer.deleted)
	}
}

func TestHandleDeliveryLeavesFailedJobForRedelivery(t *testing.T) {
	consumer := &recordingConsumer{}
	proc := &fakeProcessor{err: errors.New("provider down")}
	deps := workerproc.Deps{Analysis: proc}

	handleDelivery(context.Background(), deps, consumer, queue.Delivery{
		Handle: "h-2",
		Body:   encodeAnalyze(t, "resume-2"),
	})

	if proc.calls != 1 {
		t.Fatalf("expected one process call, got %d", proc.calls)
	}
	if len(consumer.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", consumer.deleted)
	}
}

func TestHandleDeliveryDeletesMalformedBody(t *testing.T) {
	consumer := &recordingConsumer{}
	deps := workerproc.Deps{Analysis: &fakeProcessor{}}

	handleDelivery(context.Background(), deps, consumer, queue.Delivery{
		Handle: "h-3",
		Body:   "{not json",
	})

	if len(consumer.deleted) != 1 || consumer.deleted[0] != "h-3" {
		t.Fatalf("expected delete of h-3, got %v", consumer.deleted)
	}
}

func TestHandleDeliveryDeletesUnknownKind(t *testing.T) {
	consumer := &recordingConsumer{}
	deps := workerproc.Deps{Analysis: &fakeProcessor{}}

	msg, err := queue.NewMessage("resume.unknown", map[string]string{})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	raw, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	handleDelivery(context.Background(), deps, consumer, queue.Delivery{
		Handle: "h-4",
		Body:   string(raw),
	})

	if len(consumer.deleted) != 1 {
		t.Fatalf("expected delete, got %v", consumer.deleted)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("WORKER_TEST_INT", "7")
	if got := envInt("WORKER_TEST_INT", 3); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	t.Setenv("WORKER_TEST_INT", "oops")
	if got := envInt("WORKER_TEST_INT", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}
