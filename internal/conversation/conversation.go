// Package conversation runs one chat turn end to end: it resolves the
// conversation, persists the user message, refreshes short-term memory,
// derives preferences, calls the generation backend through the
// deduplicator, and persists the assistant reply.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/intel"
	"github.com/tripflow/tripflow/internal/memory"
	"github.com/tripflow/tripflow/internal/provider"
	"github.com/tripflow/tripflow/internal/store"
	"github.com/tripflow/tripflow/pkg/chat"
)

// ErrPersistence marks a rejected write to the conversation store. It is one
// of the two errors ProcessMessage lets cross its boundary, the other being
// store.ErrNotFound.
var ErrPersistence = errors.New("conversation: persistence failure")

// Generation failures never surface as errors. The turn completes with one
// of these fixed replies instead so the conversation can continue.
const (
	chatTimeout      = 180 * time.Second
	fallbackResponse = "I'm having trouble processing your request right now. Please try again in a moment."
	errorResponse    = "I apologize, but I encountered an error. Please try again."
)

// Handler orchestrates a chat turn. The analyzer and memory collaborators
// are optional; a nil value disables that part of the pipeline.
type Handler struct {
	store    store.Store
	provider provider.Provider
	analyzer intel.Analyzer
	memory   *memory.Memory
	dedup    *dedup.Deduplicator[provider.Response]
	timeout  time.Duration
	logger   *slog.Logger
}

// Options tune the handler beyond its required collaborators.
type Options struct {
	Analyzer intel.Analyzer
	Memory   *memory.Memory
	Timeout  time.Duration
}

// New creates a Handler. Store, provider, and deduplicator are required;
// a nil logger falls back to slog.Default().
func New(st store.Store, p provider.Provider, d *dedup.Deduplicator[provider.Response], opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = chatTimeout
	}
	return &Handler{
		store:    st,
		provider: p,
		analyzer: opts.Analyzer,
		memory:   opts.Memory,
		dedup:    d,
		timeout:  timeout,
		logger:   logger.With("component", "conversation"),
	}
}

// Result is the outcome of one processed turn. Preferences and MessageCount
// give the caller what it needs to compute suggestions without re-reading
// the conversation.
type Result struct {
	Reply          string
	ConversationID string
	WasCached      bool
	Preferences    chat.Preferences
	MessageCount   int
}

// ProcessMessage runs the full turn for one user message. An empty
// conversationID starts a new conversation with an auto-derived title.
// Generation timeouts and backend errors are absorbed into fixed reply
// text; only store.ErrNotFound and ErrPersistence are returned as errors.
func (h *Handler) ProcessMessage(ctx context.Context, userID, conversationID, content string) (Result, error) {
	conv, err := h.ensureConversation(ctx, userID, conversationID, content)
	if err != nil {
		return Result{}, err
	}
	conversationID = conv.ID

	conv, err = h.store.AppendMessage(ctx, conversationID, userID, chat.NewMessage(chat.RoleUser, content))
	if err != nil {
		return Result{}, h.storeErr("appending user message", err)
	}

	h.updateMemory(conversationID, content, conv.Messages)

	prefs := h.extractPreferences(ctx, conv)
	h.mergeMemoryContext(conversationID, &prefs)

	metadata := map[string]any{
		"conversation_id": conversationID,
		"user_id":         userID,
		"message_count":   len(conv.Messages),
	}

	resp, wasCached, err := h.dedup.GetOrExecute(ctx, userID, content, conversationID,
		func(ctx context.Context) (provider.Response, error) {
			return h.generate(ctx, conv.Messages, prefs, metadata), nil
		})
	if err != nil {
		resp = provider.Response{Content: errorResponse}
	}
	if wasCached {
		h.logger.Info("returning cached reply", "user_id", userID, "conversation_id", conversationID)
	}

	// The classifier's view of the preferences wins over anything the
	// backend claims to have extracted.
	saved := prefs
	if saved.IsZero() && resp.ExtractedPreferences != nil {
		saved = *resp.ExtractedPreferences
	}

	assistant := chat.NewMessage(chat.RoleAssistant, resp.Content)
	if !saved.IsZero() {
		assistant.Metadata = map[string]any{
			chat.MetaExtractedPreferences: saved.ToMap(),
			chat.MetaConfidenceScore:      resp.ConfidenceScore,
		}
	}
	conv, err = h.store.AppendMessage(ctx, conversationID, userID, assistant)
	if err != nil {
		return Result{}, h.storeErr("appending assistant message", err)
	}

	// Keep the conversation's preference snapshot current so later reads
	// (recovery personalization, the admin surface) see this turn's state.
	// The reply is already persisted, so a failure here only logs.
	if !saved.IsZero() {
		if err := h.store.SetPreferences(ctx, conversationID, userID, saved); err != nil {
			h.logger.Warn("saving preference snapshot failed",
				"conversation_id", conversationID, "error", err)
		}
	}

	return Result{
		Reply:          resp.Content,
		ConversationID: conversationID,
		WasCached:      wasCached,
		Preferences:    saved,
		MessageCount:   len(conv.Messages),
	}, nil
}

// ensureConversation resolves an existing conversation or starts a new one
// titled from the opening message.
func (h *Handler) ensureConversation(ctx context.Context, userID, conversationID, initialMessage string) (*chat.Conversation, error) {
	if conversationID == "" {
		conv, err := h.store.CreateConversation(ctx, userID, store.DeriveTitle(initialMessage))
		if err != nil {
			return nil, fmt.Errorf("creating conversation: %w", errors.Join(ErrPersistence, err))
		}
		return conv, nil
	}
	conv, err := h.store.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, h.storeErr("fetching conversation", err)
	}
	return conv, nil
}

// updateMemory writes the turn summary and extracted key points into
// short-term memory. A nil memory disables this step.
func (h *Handler) updateMemory(conversationID, content string, messages []chat.Message) {
	if h.memory == nil {
		return
	}
	points := memory.ExtractKeyPoints(messages)

	context := map[string]any{
		"last_message":  content,
		"message_count": len(messages),
	}
	if len(points.Destinations) > 0 {
		context["destinations"] = points.Destinations
	}
	if len(points.Preferences) > 0 {
		context["preferences"] = points.Preferences
	}
	h.memory.Store(conversationID, context, points.ToMap())
}

// extractPreferences blends the last assistant message's claimed
// preferences with a fresh classifier pass. Assistant metadata that lacks
// destinations is discarded so the classifier re-derives the full set.
func (h *Handler) extractPreferences(ctx context.Context, conv *chat.Conversation) chat.Preferences {
	var prefs chat.Preferences
	if last, ok := conv.LastAssistantMessage(); ok {
		if raw := last.ExtractedPreferences(); raw != nil {
			prefs = chat.PreferencesFromMap(raw)
			if len(prefs.Destinations) == 0 {
				prefs = chat.Preferences{}
			}
		}
	}

	if h.analyzer == nil {
		return prefs
	}
	insights, err := h.analyzer.Analyze(ctx, conv.Messages, prefs)
	if err != nil {
		h.logger.Warn("preference analysis failed", "conversation_id", conv.ID, "error", err)
		return prefs
	}

	var extracted chat.Preferences
	extracted.Destinations = insights.MentionedDestinations
	if len(extracted.Destinations) == 0 {
		extracted.Destinations = h.rememberedDestinations(conv.ID)
	}
	if len(insights.BudgetIndicators) > 0 {
		extracted.BudgetRange = insights.BudgetIndicators[0]
	}
	extracted.BudgetAmount = insights.BudgetAmount
	extracted.TravelStyle = insights.DetectedInterests
	extracted.Stage = insights.DecisionStage

	if extracted.IsZero() {
		return prefs
	}
	return prefs.Merge(extracted)
}

// rememberedDestinations falls back to destinations seen in earlier turns
// when the classifier finds none in the current message list.
func (h *Handler) rememberedDestinations(conversationID string) []string {
	if h.memory == nil {
		return nil
	}
	entry, ok := h.memory.GetContext(conversationID)["destinations"]
	if !ok {
		return nil
	}
	switch v := entry.Value.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

// mergeMemoryContext folds still-relevant memory facts into the preference
// set under a memory_ prefix, skipping keys the preferences already carry.
func (h *Handler) mergeMemoryContext(conversationID string, prefs *chat.Preferences) {
	if h.memory == nil || prefs.IsZero() {
		return
	}
	for key, entry := range h.memory.GetContext(conversationID) {
		if prefs.Has(key) {
			continue
		}
		switch entry.Value.(type) {
		case string, []string, []any:
			prefs.SetExtra("memory_"+key, entry.Value)
		}
	}
}

// generate calls the backend under the turn timeout and converts every
// failure into fixed reply text.
func (h *Handler) generate(ctx context.Context, messages []chat.Message, prefs chat.Preferences, metadata map[string]any) provider.Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.provider.Generate(ctx, provider.Request{
		Messages:    messages,
		Preferences: prefs,
		Metadata:    metadata,
	})
	switch {
	case err == nil:
		return resp
	case errors.Is(err, provider.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("generation timed out")
		return provider.Response{Content: fallbackResponse}
	default:
		h.logger.Error("generation failed", "error", err)
		return provider.Response{Content: errorResponse}
	}
}

// storeErr passes ErrNotFound through untouched and tags everything else
// as a persistence failure.
func (h *Handler) storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}
