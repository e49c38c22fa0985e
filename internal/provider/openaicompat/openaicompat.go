// Package openaicompat implements the generation backend against any API
// that speaks the OpenAI chat completions interface (OpenRouter, Mistral,
// Groq, vLLM, LiteLLM, etc.) via a configurable base_url.
package openaicompat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tripflow/tripflow/internal/provider"
)

// Provider is an OpenAI-compatible generation backend.
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Provider from cfg. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		config: cfg,
		// Response-header timeout instead of a global client timeout so a
		// slow body read is governed by the request context.
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		logger: logger.With("component", "provider", "model", cfg.Model),
	}, nil
}

// Generate implements provider.Provider.
func (p *Provider) Generate(ctx context.Context, req provider.Request) (provider.Response, error) {
	oaiReq := oaiRequest{
		Model:       p.config.Model,
		Messages:    buildMessages(req.Messages, req.Preferences, req.Metadata),
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}

	resp, err := p.doRequest(ctx, oaiReq)
	if err != nil {
		return provider.Response{}, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return provider.Response{}, handleErrorResponse(resp)
	}

	var oaiResp oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oaiResp); err != nil {
		return provider.Response{}, fmt.Errorf("%w: decode response: %w", provider.ErrBackend, err)
	}
	if len(oaiResp.Choices) == 0 || oaiResp.Choices[0].Message.Content == "" {
		return provider.Response{}, fmt.Errorf("%w: empty completion", provider.ErrBackend)
	}

	content := oaiResp.Choices[0].Message.Content
	p.logger.Debug("completion received",
		"finish_reason", oaiResp.Choices[0].FinishReason,
		"total_tokens", oaiResp.Usage.TotalTokens)

	return provider.Response{
		Content:         content,
		ConfidenceScore: responseConfidence(content, req.Messages),
	}, nil
}

// HealthCheck implements provider.HealthChecker. It probes the /models
// endpoint to check backend availability.
func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := strings.TrimRight(p.config.BaseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	for k, v := range p.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: health check: %w", provider.ErrBackend, err)
	}
	defer resp.Body.Close()               //nolint:errcheck // best-effort close
	_, _ = io.Copy(io.Discard, resp.Body) // drain body

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: health check returned HTTP %d", provider.ErrBackend, resp.StatusCode)
	}
	return nil
}

// Compile-time interface assertions.
var (
	_ provider.Provider      = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
)
