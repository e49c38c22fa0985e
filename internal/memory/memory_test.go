package memory

import (
	"testing"
	"time"

	"github.com/tripflow/tripflow/pkg/chat"
)

func newTestMemory(t *testing.T) (*Memory, *time.Time) {
	t.Helper()
	m := New(nil)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }
	return m, &current
}

func TestStoreAndGetContext(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)

	m.Store("conv-1", map[string]any{"destination": "Paris"}, nil)

	ctx := m.GetContext("conv-1")
	if ctx == nil {
		t.Fatal("GetContext() = nil, want stored facts")
	}
	entry, ok := ctx["destination"]
	if !ok {
		t.Fatal("GetContext() missing key destination")
	}
	if entry.Value != "Paris" {
		t.Errorf("entry.Value = %v, want Paris", entry.Value)
	}
	// Fresh single mention: 0.7*1.0 + 0.3*0.2 = 0.76.
	if got, want := entry.Relevance, 0.76; !closeTo(got, want) {
		t.Errorf("entry.Relevance = %v, want %v", got, want)
	}
}

func TestGetContextUnknownConversation(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)
	if ctx := m.GetContext("missing"); ctx != nil {
		t.Errorf("GetContext(missing) = %v, want nil", ctx)
	}
}

func TestRelevanceDecayExpiresSingleMention(t *testing.T) {
	t.Parallel()
	m, current := newTestMemory(t)

	m.Store("conv-1", map[string]any{"note": "wants beaches"}, nil)

	// At 2571s a once-mentioned fact falls to relevance <= 0.3 and drops out:
	// recency = 1 - 2571/3600, 0.7*recency + 0.3*0.2 < 0.3.
	*current = current.Add(2571 * time.Second)
	if ctx := m.GetContext("conv-1"); ctx != nil {
		t.Errorf("GetContext() after decay = %v, want nil", ctx)
	}
}

func TestRelevanceJustAboveThresholdSurvives(t *testing.T) {
	t.Parallel()
	m, current := newTestMemory(t)

	m.Store("conv-1", map[string]any{"note": "wants beaches"}, nil)

	*current = current.Add(2300 * time.Second)
	ctx := m.GetContext("conv-1")
	if ctx == nil {
		t.Fatal("GetContext() = nil, want fact still above threshold")
	}
	if _, ok := ctx["note"]; !ok {
		t.Error("GetContext() missing key note")
	}
}

func TestFrequencySaturatesAtFiveMentions(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)

	for i := 0; i < 7; i++ {
		m.Store("conv-1", map[string]any{"destination": "Tokyo"}, nil)
	}

	ctx := m.GetContext("conv-1")
	entry, ok := ctx["destination"]
	if !ok {
		t.Fatal("GetContext() missing key destination")
	}
	// Fully fresh and saturated: 0.7*1.0 + 0.3*1.0 = 1.0.
	if got, want := entry.Relevance, 1.0; !closeTo(got, want) {
		t.Errorf("entry.Relevance = %v, want %v", got, want)
	}
}

func TestRepeatedMentionsOutliveSingleMention(t *testing.T) {
	t.Parallel()
	m, current := newTestMemory(t)

	for i := 0; i < 5; i++ {
		m.Store("conv-1", map[string]any{"repeated": "train travel"}, nil)
	}
	m.Store("conv-1", map[string]any{"once": "maybe a cruise"}, nil)

	*current = current.Add(2600 * time.Second)
	ctx := m.GetContext("conv-1")
	if ctx == nil {
		t.Fatal("GetContext() = nil, want repeated fact to survive")
	}
	if _, ok := ctx["repeated"]; !ok {
		t.Error("repeated fact dropped, want it retained")
	}
	if _, ok := ctx["once"]; ok {
		t.Error("single-mention fact retained, want it dropped")
	}
}

func TestInsightsPinnedToSingleMention(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)

	m.Store("conv-1", nil, map[string]any{"budget_level": "luxury"})
	m.Store("conv-1", nil, map[string]any{"budget_level": "luxury"})
	m.Store("conv-1", nil, map[string]any{"budget_level": "luxury"})

	m.mu.RLock()
	f := m.conversations["conv-1"]["insight_budget_level"]
	m.mu.RUnlock()
	if f == nil {
		t.Fatal("insight fact not stored")
	}
	if f.mentionCount != 1 {
		t.Errorf("insight mentionCount = %d, want 1", f.mentionCount)
	}
}

func TestStoreMessageList(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)

	msgs := []chat.Message{{Role: chat.RoleUser, Content: "hi"}}
	m.Store("conv-1", msgs, nil)

	ctx := m.GetContext("conv-1")
	if _, ok := ctx["messages"]; !ok {
		t.Errorf("GetContext() keys = %v, want messages", keysOf(ctx))
	}
}

func TestClearContext(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory(t)

	m.Store("conv-1", map[string]any{"destination": "Lisbon"}, nil)
	m.ClearContext("conv-1")

	if ctx := m.GetContext("conv-1"); ctx != nil {
		t.Errorf("GetContext() after clear = %v, want nil", ctx)
	}
}

func TestCleanupOldContexts(t *testing.T) {
	t.Parallel()
	m, current := newTestMemory(t)

	m.Store("old", map[string]any{"destination": "Oslo"}, nil)

	*current = current.Add(45 * time.Minute)
	m.Store("mixed", map[string]any{"destination": "Rome"}, nil)

	*current = current.Add(30 * time.Minute)
	removed := m.CleanupOldContexts(time.Hour)
	if removed != 1 {
		t.Fatalf("CleanupOldContexts() = %d, want 1", removed)
	}

	m.mu.RLock()
	_, oldExists := m.conversations["old"]
	_, mixedExists := m.conversations["mixed"]
	m.mu.RUnlock()
	if oldExists {
		t.Error("conversation old survived sweep, want removed")
	}
	if !mixedExists {
		t.Error("conversation mixed removed, want retained")
	}
}

func TestCleanupKeepsConversationWithOneRecentFact(t *testing.T) {
	t.Parallel()
	m, current := newTestMemory(t)

	m.Store("conv-1", map[string]any{"stale": "old note"}, nil)
	*current = current.Add(2 * time.Hour)
	m.Store("conv-1", map[string]any{"fresh": "new note"}, nil)

	if removed := m.CleanupOldContexts(time.Hour); removed != 0 {
		t.Errorf("CleanupOldContexts() = %d, want 0", removed)
	}
}

func closeTo(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func keysOf(m map[string]ContextEntry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
