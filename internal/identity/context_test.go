package identity

import (
	"context"
	"testing"
)

func TestAccountIDRoundTrip(t *testing.T) {
	ctx := WithAccountID(context.Background(), 42)
	got, ok := AccountIDFromContext(ctx)
	if !ok || got != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", got, ok)
	}
}

func TestAccountIDMissing(t *testing.T) {
	if _, ok := AccountIDFromContext(context.Background()); ok {
		t.Fatal("expected missing account id")
	}
}

func TestAccountIDZeroRejected(t *testing.T) {
	ctx := WithAccountID(context.Background(), 0)
	if _, ok := AccountIDFromContext(ctx); ok {
		t.Fatal("zero account id should not resolve")
	}
}
