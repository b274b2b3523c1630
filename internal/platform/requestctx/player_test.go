package requestctx

import (
	"context"
	"testing"
)

func TestWithPlayerRoundTrip(t *testing.T) {
	ctx := WithPlayer(context.Background(), "alice")
	if got := PlayerFromContext(ctx); got != "alice" {
		t.Fatalf("expected alice, got %q", got)
	}
}

func TestPlayerFromContextMissing(t *testing.T) {
	if got := PlayerFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty player, got %q", got)
	}
}

func TestWithPlayerNilContext(t *testing.T) {
	ctx := WithPlayer(nil, "bob")
	if got := PlayerFromContext(ctx); got != "bob" {
		t.Fatalf("expected bob, got %q", got)
	}
}

func TestPlayerFromNilContext(t *testing.T) {
	if got := PlayerFromContext(nil); got != "" {
		t.Fatalf("expected empty player, got %q", got)
	}
}
