package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "resume.pdf", want: "resume.pdf"},
		{name: "separators replaced", in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{name: "traversal rejected", in: "../etc/passwd", wantErr: true},
		{name: "empty rejected", in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeFileName(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitize %q: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("sanitize %q = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestHashUserKeyStableAndSafe(t *testing.T) {
	a := HashUserKey("user-1")
	b := HashUserKey("user-1")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if a == HashUserKey("user-2") {
		t.Fatal("distinct users hashed to the same key")
	}
	if strings.ContainsAny(a, "/\\.") {
		t.Fatalf("hash contains unsafe characters: %q", a)
	}
	if len(a) != 64 {
		t.Fatalf("unexpected hash length: %d", len(a))
	}
}
