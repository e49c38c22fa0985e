package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripflow/tripflow/pkg/chat"
)

// MemStore is a thread-safe, in-memory implementation of Store. State is
// lost on restart; the sqlite implementation is the durable one.
type MemStore struct {
	mu            sync.RWMutex
	conversations map[string]*chat.Conversation
	now           func() time.Time
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		conversations: make(map[string]*chat.Conversation),
		now:           time.Now,
	}
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// CreateConversation implements Store.
func (s *MemStore) CreateConversation(_ context.Context, userID, title string) (*chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := &chat.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = conv
	return snapshot(conv), nil
}

// GetConversation implements Store.
func (s *MemStore) GetConversation(_ context.Context, id, userID string) (*chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, err := s.resolve(id, userID)
	if err != nil {
		return nil, err
	}
	return snapshot(conv), nil
}

// AppendMessage implements Store.
func (s *MemStore) AppendMessage(_ context.Context, id, userID string, msg chat.Message) (*chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.resolve(id, userID)
	if err != nil {
		return nil, err
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = s.now()
	return snapshot(conv), nil
}

// SetPreferences implements Store.
func (s *MemStore) SetPreferences(_ context.Context, id, userID string, prefs chat.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.resolve(id, userID)
	if err != nil {
		return err
	}
	conv.Preferences = prefs
	conv.UpdatedAt = s.now()
	return nil
}

// ListConversations implements Store.
func (s *MemStore) ListConversations(_ context.Context, userID string) ([]*chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*chat.Conversation
	for _, conv := range s.conversations {
		if conv.UserID == userID && conv.Active {
			out = append(out, snapshot(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// SoftDelete implements Store.
func (s *MemStore) SoftDelete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.resolve(id, userID)
	if err != nil {
		return err
	}
	conv.Active = false
	conv.UpdatedAt = s.now()
	return nil
}

// resolve looks up an active conversation owned by userID. Callers hold the
// lock.
func (s *MemStore) resolve(id, userID string) (*chat.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID || !conv.Active {
		return nil, ErrNotFound
	}
	return conv, nil
}

// snapshot copies a conversation so callers cannot mutate shared state.
func snapshot(conv *chat.Conversation) *chat.Conversation {
	out := *conv
	out.Messages = make([]chat.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
