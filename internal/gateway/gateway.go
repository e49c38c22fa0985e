// Package gateway exposes the conversation engine over HTTP: a chat endpoint
// with rate-limit admission and flow validation in front of it, a websocket
// variant of the same loop, a small conversation admin surface, health, and
// prometheus metrics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripflow/tripflow/internal/conversation"
	"github.com/tripflow/tripflow/internal/proactive"
	"github.com/tripflow/tripflow/internal/provider"
	"github.com/tripflow/tripflow/internal/ratelimit"
	"github.com/tripflow/tripflow/internal/recovery"
	"github.com/tripflow/tripflow/internal/store"
)

// Deps are the collaborators the gateway fronts. Health is optional; a nil
// value reports the provider as unchecked.
type Deps struct {
	Handler   *conversation.Handler
	Store     store.Store
	Limiter   *ratelimit.Limiter
	Recovery  *recovery.Service
	Proactive *proactive.Assistant
	Health    provider.HealthChecker
}

// Gateway is the HTTP server in front of the conversation engine.
type Gateway struct {
	config    Config
	handler   *conversation.Handler
	store     store.Store
	limiter   *ratelimit.Limiter
	recovery  *recovery.Service
	proactive *proactive.Assistant
	health    provider.HealthChecker
	metrics   *Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
	server    *http.Server
}

// New creates a Gateway. A nil logger falls back to slog.Default().
func New(cfg Config, deps Deps, logger *slog.Logger) *Gateway {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:    cfg,
		handler:   deps.Handler,
		store:     deps.Store,
		limiter:   deps.Limiter,
		recovery:  deps.Recovery,
		proactive: deps.Proactive,
		health:    deps.Health,
		metrics:   NewMetrics(),
		tracer:    otel.Tracer("tripflow/gateway"),
		logger:    logger.With("component", "gateway"),
	}
}

// Start binds the listener and serves in a goroutine.
func (g *Gateway) Start() error {
	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}

// healthCheckTimeout bounds the provider probe on GET /health.
const healthCheckTimeout = 5 * time.Second
