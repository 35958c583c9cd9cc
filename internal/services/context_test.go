package services_test

import (
	"context"
	"testing"

	"storevisit/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithInvocationID(ctx, "inv-2")
	ctx = services.WithComponent(ctx, "session")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if id, ok := services.InvocationIDFromContext(ctx); !ok || id != "inv-2" {
		t.Fatalf("unexpected invocation id: %v %v", id, ok)
	}
	if c, ok := services.ComponentFromContext(ctx); !ok || c != "session" {
		t.Fatalf("unexpected component: %v %v", c, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "")
	ctx = services.WithInvocationID(ctx, "")
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session value")
	}
	if _, ok := services.InvocationIDFromContext(ctx); ok {
		t.Fatal("expected no invocation value")
	}
}
