// Package provider defines the interface to the generation backend that
// writes the assistant's replies.
package provider

import (
	"context"

	"github.com/tripflow/tripflow/pkg/chat"
)

// Request carries everything the backend needs to generate a reply: the
// conversation so far, the preferences known about the user, and free-form
// metadata about the conversation.
type Request struct {
	Messages    []chat.Message
	Preferences chat.Preferences
	Metadata    map[string]any
}

// Response is one generated assistant turn. ExtractedPreferences is nil
// when the backend did not return a structured preference update.
type Response struct {
	Content              string
	ExtractedPreferences *chat.Preferences
	ConfidenceScore      float64
}

// Provider is the interface for communicating with a generation backend.
// Implementations must honor ctx cancellation and return ErrTimeout or
// ErrBackend (possibly wrapped) for transport-level failures.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// HealthChecker is an optional interface for backends that support an
// active availability probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
