package queue

import (
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(KindAnalyzeResume, AnalyzeResumePayload{
		ResumeID:       "resume-123",
		JobDescription: "Senior Go engineer",
		Provider:       "heuristic",
		RequestedBy:    "admin-1",
	})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if msg.TaskID == "" {
		t.Fatal("expected task id to be assigned")
	}
	if msg.Kind != KindAnalyzeResume {
		t.Fatalf("unexpected kind: %s", msg.Kind)
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.TaskID != msg.TaskID || got.Kind != msg.Kind || got.Version != msg.Version {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}

	var body AnalyzeResumePayload
	if err := DecodeBody(got, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := AnalyzeResumePayload{
		ResumeID:       "resume-123",
		JobDescription: "Senior Go engineer",
		Provider:       "heuristic",
		RequestedBy:    "admin-1",
	}
	if !reflect.DeepEqual(body, want) {
		t.Fatalf("body mismatch: got %+v want %+v", body, want)
	}
}

func TestDecodeBodyEmpty(t *testing.T) {
	msg := Message{TaskID: "t-1", Kind: KindSendEmail}
	var body SendEmailPayload
	if err := DecodeBody(msg, &body); err == nil {
		t.Fatal("expected error for empty body")
	}
}
