// Package memory keeps short-term, per-conversation facts so later turns can
// reference what was said without re-deriving it, while stale facts fade out
// of view through a blended recency/frequency relevance score.
package memory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tripflow/tripflow/pkg/chat"
)

// Relevance scoring constants. A fact is surfaced only while
// 0.7*recency + 0.3*frequency stays above the threshold.
const (
	recencyWeight       = 0.7
	frequencyWeight     = 0.3
	recencyHorizon      = time.Hour
	frequencySaturation = 5
	relevanceThreshold  = 0.3
)

// fact is one remembered item for a conversation. mentionCount starts at 1
// and only ever grows.
type fact struct {
	value        any
	timestamp    time.Time
	mentionCount int
}

// ContextEntry is a surfaced fact with its computed relevance.
type ContextEntry struct {
	Value     any     `json:"value"`
	Relevance float64 `json:"relevance"`
}

// Memory is the short-term conversation fact store. Turns for a single
// conversation are assumed to be serialized by the caller; the internal
// mutex exists so the background sweep can run alongside live turns.
type Memory struct {
	mu            sync.RWMutex
	conversations map[string]map[string]*fact
	logger        *slog.Logger
	now           func() time.Time
}

// New creates an empty Memory. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		conversations: make(map[string]map[string]*fact),
		logger:        logger.With("component", "memory"),
		now:           time.Now,
	}
}

// Store remembers context for a conversation. The shape of context decides
// how it is keyed: a map stores each entry under its own key, a message list
// is stored whole under "messages", anything else under "context". Every
// write to an existing key replaces its value, bumps its mention count, and
// refreshes its timestamp. Insights are derived facts: they are written
// under an "insight_" prefix with the mention count pinned to 1.
func (m *Memory) Store(conversationID string, context any, insights map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	facts := m.conversations[conversationID]
	if facts == nil {
		facts = make(map[string]*fact)
		m.conversations[conversationID] = facts
	}

	now := m.now()
	switch ctx := context.(type) {
	case map[string]any:
		for key, value := range ctx {
			m.write(facts, key, value, now)
		}
	case []chat.Message:
		m.write(facts, "messages", ctx, now)
	case []any:
		m.write(facts, "messages", ctx, now)
	default:
		m.write(facts, "context", ctx, now)
	}

	for key, value := range insights {
		facts["insight_"+key] = &fact{value: value, timestamp: now, mentionCount: 1}
	}
}

// write replaces the value under key, incrementing the mention count.
func (m *Memory) write(facts map[string]*fact, key string, value any, now time.Time) {
	if existing, ok := facts[key]; ok {
		existing.value = value
		existing.timestamp = now
		existing.mentionCount++
		return
	}
	facts[key] = &fact{value: value, timestamp: now, mentionCount: 1}
}

// GetContext returns the conversation's facts that are still relevant.
// Relevance is recomputed on every read, never cached: recency decays
// linearly to zero over an hour, frequency saturates at five mentions.
func (m *Memory) GetContext(conversationID string) map[string]ContextEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	facts := m.conversations[conversationID]
	if len(facts) == 0 {
		return nil
	}

	now := m.now()
	out := make(map[string]ContextEntry)
	for key, f := range facts {
		recency := 1 - now.Sub(f.timestamp).Seconds()/recencyHorizon.Seconds()
		if recency < 0 {
			recency = 0
		}
		frequency := float64(f.mentionCount) / frequencySaturation
		if frequency > 1 {
			frequency = 1
		}
		relevance := recencyWeight*recency + frequencyWeight*frequency
		if relevance > relevanceThreshold {
			out[key] = ContextEntry{Value: f.value, Relevance: relevance}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ClearContext forgets everything about one conversation.
func (m *Memory) ClearContext(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, conversationID)
}

// CleanupOldContexts removes conversations whose every fact is older than
// maxAge. A conversation with even one recent fact survives the sweep.
// Returns the number of conversations removed.
func (m *Memory) CleanupOldContexts(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	var stale []string
	for id, facts := range m.conversations {
		allOld := true
		for _, f := range facts {
			if f.timestamp.After(cutoff) {
				allOld = false
				break
			}
		}
		if allOld {
			stale = append(stale, id)
		}
	}

	for _, id := range stale {
		delete(m.conversations, id)
	}
	if len(stale) > 0 {
		m.logger.Info("swept old conversation memories", "removed", len(stale))
	}
	return len(stale)
}
