package users

import (
	"context"
	"testing"
)

func TestServiceUpsertAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user := User{ID: "u-1", Email: "candidate@example.com", FullName: "Ada Example", Role: "candidate"}
	if err := svc.UpsertFromToken(ctx, user); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := svc.GetByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != user.Email || got.Role != user.Role {
		t.Fatalf("got %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set on upsert")
	}
}

func TestServiceValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromToken(ctx, User{ID: "u-1"}); err == nil {
		t.Fatal("missing email must be rejected")
	}
	if _, err := svc.GetByID(ctx, ""); err == nil {
		t.Fatal("empty id must be rejected")
	}
	if _, err := svc.GetByID(ctx, "absent"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
