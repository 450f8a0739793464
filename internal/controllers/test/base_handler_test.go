package controllers_test

import (
	"context"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-posts/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
)

func TestBaseHandlerWithTimeout(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{Command: 200 * time.Millisecond})
	ctx, cancel := handler.WithTimeout(context.Background(), controllers.HandlerTypeCommand)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected deadline to be set")
	}
	remaining := time.Until(deadline)
	if remaining < 150*time.Millisecond || remaining > 250*time.Millisecond {
		t.Fatalf("expected timeout near 200ms, got %v", remaining)
	}
}

func TestBaseHandlerFallbacks(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{Query: time.Second})
	got := handler.Timeouts()
	if got.Default != time.Second {
		t.Fatalf("expected default to fall back to query timeout, got %v", got.Default)
	}
	if got.Command != time.Second {
		t.Fatalf("expected command to fall back to default, got %v", got.Command)
	}

	empty := controllers.NewBaseHandler(controllers.HandlerTimeouts{}).Timeouts()
	if empty.Default != 5*time.Second || empty.Query != 5*time.Second {
		t.Fatalf("unexpected fallback timeouts: %+v", empty)
	}
}

func TestBaseHandlerFromConfig(t *testing.T) {
	cfg := &loader.Server{Handlers: loader.Handlers{
		CommandTimeout: loader.Duration{Duration: 4 * time.Second},
		QueryTimeout:   loader.Duration{Duration: 2 * time.Second},
	}}
	got := controllers.NewBaseHandlerFromConfig(cfg).Timeouts()
	if got.Command != 4*time.Second || got.Query != 2*time.Second || got.Default != 4*time.Second {
		t.Fatalf("unexpected timeouts: %+v", got)
	}
}

func TestNilBaseHandlerUsesFallback(t *testing.T) {
	var handler *controllers.BaseHandler
	ctx, cancel := handler.WithTimeout(context.Background(), controllers.HandlerTypeQuery)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected fallback deadline")
	}
}
