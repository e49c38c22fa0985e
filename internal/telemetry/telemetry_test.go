package telemetry

import (
	"context"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	t.Parallel()
	shutdown, err := Setup(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("Setup() shutdown = nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := Config{Enabled: true}
	cfg.defaults()
	if cfg.Endpoint == "" || cfg.ServiceName == "" {
		t.Errorf("defaults() left zero values: %+v", cfg)
	}
	if cfg.SampleRatio != 1 {
		t.Errorf("SampleRatio = %v, want 1", cfg.SampleRatio)
	}
}
