// Package chat defines the shared data contract between the HTTP gateway,
// the conversation engine, and the persistence layer.
package chat

import "time"

// Role identifies the sender of a message in a conversation.
type Role string

// Role constants for conversation messages.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Metadata keys carried on assistant messages.
const (
	MetaExtractedPreferences = "extracted_preferences"
	MetaConfidenceScore      = "confidence_score"
)

// Message is a single conversation turn. Messages are immutable once
// appended to a conversation.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a message with the timestamp set to now.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ExtractedPreferences returns the preference map carried in the message
// metadata, or nil if none is present.
func (m Message) ExtractedPreferences() map[string]any {
	if m.Metadata == nil {
		return nil
	}
	prefs, _ := m.Metadata[MetaExtractedPreferences].(map[string]any)
	return prefs
}

// Conversation is a user-owned, ordered message log. The engine treats it as
// an opaque handle passed by ID plus a snapshot of its messages for the
// duration of one turn.
type Conversation struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Messages    []Message   `json:"messages"`
	Preferences Preferences `json:"preferences"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// UserMessages returns the subset of messages authored by the user,
// preserving order.
func (c *Conversation) UserMessages() []Message {
	var out []Message
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// LastAssistantMessage returns the most recent assistant message and true,
// or a zero message and false if the conversation has none.
func (c *Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}
