package logger

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	log := FromContext(context.Background())
	if log == nil {
		t.Fatal("expected a fallback logger when ctx carries none")
	}

	ctx := context.WithValue(context.Background(), ContextKey, New()) //nolint:staticcheck
	if FromContext(ctx) == nil {
		t.Fatal("expected logger from ctx")
	}
}
