package extract

import (
	"context"
	"strings"
	"testing"
)

func TestExtractTextFromBytes_RejectsNonPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("plain text, not a pdf"))
	if err == nil {
		t.Fatal("expected error for non-pdf payload")
	}
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractTextFromBytes(ctx, []byte("%PDF-1.4"))
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractedKey(t *testing.T) {
	key := ExtractedKey("users/abc/resume.pdf")
	if !strings.HasSuffix(key, ".extracted.txt") {
		t.Fatalf("unexpected derived key: %s", key)
	}
	if !strings.HasPrefix(key, "users/abc/resume.pdf") {
		t.Fatalf("derived key should extend the source key: %s", key)
	}
}
