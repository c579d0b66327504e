package otel

import (
	"context"
	"testing"
)

func TestSetupNoEndpointIsNoop(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), "test-service", Config{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupDisabledWinsOverEndpoint(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), "test-service", Config{
		Endpoint: "http://localhost:4318",
		Disabled: true,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}
