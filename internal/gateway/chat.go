package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripflow/tripflow/internal/proactive"
	"github.com/tripflow/tripflow/internal/recovery"
	"github.com/tripflow/tripflow/internal/store"
	"github.com/tripflow/tripflow/pkg/chat"
)

// chatRequest is one inbound turn. An empty conversation_id starts a new
// conversation.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id"`
}

// chatResponse is the outcome of one turn, shared by the HTTP and websocket
// surfaces.
type chatResponse struct {
	Response       string                 `json:"response,omitempty"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Suggestions    []proactive.Suggestion `json:"suggestions,omitempty"`
	Anticipated    []string               `json:"anticipated,omitempty"`
	Recovered      bool                   `json:"recovered,omitempty"`
	Cached         bool                   `json:"cached,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// handleChat returns the handler for POST /chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid request body"})
			return
		}

		resp, status, remaining := g.processTurn(r.Context(), req)
		if status == http.StatusTooManyRequests {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		writeJSON(w, status, resp)
	}
}

// processTurn runs admission, flow validation, and the conversation handler
// for one turn. The remaining return value only carries meaning for the
// rate-limited status.
func (g *Gateway) processTurn(ctx context.Context, req chatRequest) (resp chatResponse, status, remaining int) {
	if strings.TrimSpace(req.Message) == "" {
		return chatResponse{Error: "message is required"}, http.StatusBadRequest, 0
	}
	if req.UserID == "" {
		return chatResponse{Error: "user_id is required"}, http.StatusBadRequest, 0
	}

	ctx, span := g.tracer.Start(ctx, "gateway.processTurn")
	span.SetAttributes(attribute.String("conversation.id", req.ConversationID))
	defer span.End()

	allowed, remaining := g.limiter.Admit(req.UserID)
	if !allowed {
		g.metrics.admissionDenials.Inc()
		span.SetStatus(codes.Error, "rate limited")
		return chatResponse{Error: "rate limit exceeded"}, http.StatusTooManyRequests, remaining
	}

	// Flow validation needs the history; for an existing conversation this
	// also rejects unknown ids before any writes happen.
	var history []chat.Message
	var recoveryCtx *recovery.Context
	if req.ConversationID != "" {
		conv, err := g.store.GetConversation(ctx, req.ConversationID, req.UserID)
		switch {
		case err == nil:
			history = conv.Messages
			recoveryCtx = recoveryContext(conv)
		case errors.Is(err, store.ErrNotFound):
			return chatResponse{Error: "conversation not found"}, http.StatusNotFound, 0
		default:
			g.logger.Error("loading conversation failed", "error", err)
			return chatResponse{Error: "failed to process chat request"}, http.StatusInternalServerError, 0
		}
	}

	if validation := g.recovery.ValidateFlow(history, req.Message); !validation.IsValid {
		g.metrics.recoveries.Inc()
		span.SetAttributes(attribute.Bool("turn.recovered", true))
		return chatResponse{
			Response:       g.recovery.GetRecoveryResponse(recovery.ErrorOffTopic, recoveryCtx),
			ConversationID: req.ConversationID,
			Recovered:      true,
		}, http.StatusOK, 0
	}

	start := time.Now()
	result, err := g.handler.ProcessMessage(ctx, req.UserID, req.ConversationID, req.Message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, store.ErrNotFound) {
			return chatResponse{Error: "conversation not found"}, http.StatusNotFound, 0
		}
		g.logger.Error("chat turn failed", "user_id", req.UserID, "error", err)
		return chatResponse{Error: "failed to process chat request"}, http.StatusInternalServerError, 0
	}
	g.metrics.ObserveTurn(time.Since(start), result.WasCached)
	span.SetAttributes(attribute.Bool("turn.cached", result.WasCached))

	stage := result.Preferences.Stage
	return chatResponse{
		Response:       result.Reply,
		ConversationID: result.ConversationID,
		Suggestions:    g.proactive.GetSuggestions(stage, result.Preferences, result.MessageCount),
		Anticipated:    g.proactive.AnticipateNextQuestions(stage, result.Preferences, nil),
		Cached:         result.WasCached,
	}, http.StatusOK, 0
}

// recoveryContext pulls the last known destination and stage out of a
// conversation so a recovery reply can reference them.
func recoveryContext(conv *chat.Conversation) *recovery.Context {
	ctx := &recovery.Context{Stage: conv.Preferences.Stage}
	if n := len(conv.Preferences.Destinations); n > 0 {
		ctx.LastDestination = conv.Preferences.Destinations[n-1]
	}
	return ctx
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
