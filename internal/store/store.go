// Package store persists conversations and their messages. All operations
// are scoped by user: a conversation id only resolves for the user who owns
// it.
package store

import (
	"context"
	"errors"

	"github.com/tripflow/tripflow/pkg/chat"
)

// ErrNotFound indicates the conversation does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("store: conversation not found")

// Store manages conversation persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateConversation creates an empty conversation for the user.
	CreateConversation(ctx context.Context, userID, title string) (*chat.Conversation, error)

	// GetConversation fetches a conversation by id, scoped to the user.
	GetConversation(ctx context.Context, id, userID string) (*chat.Conversation, error)

	// AppendMessage appends one message and returns the updated
	// conversation.
	AppendMessage(ctx context.Context, id, userID string, msg chat.Message) (*chat.Conversation, error)

	// SetPreferences replaces the conversation's preference snapshot.
	SetPreferences(ctx context.Context, id, userID string, prefs chat.Preferences) error

	// ListConversations returns the user's active conversations, most
	// recently updated first.
	ListConversations(ctx context.Context, userID string) ([]*chat.Conversation, error)

	// SoftDelete marks a conversation inactive. Inactive conversations no
	// longer resolve through GetConversation or ListConversations.
	SoftDelete(ctx context.Context, id, userID string) error
}
