package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripflow/tripflow/internal/store"
	"github.com/tripflow/tripflow/pkg/chat"
)

// timeFormat matches the strftime default used in the schema.
const timeFormat = "2006-01-02T15:04:05.000Z"

// Store implements store.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// CreateConversation implements store.Store.
func (s *Store) CreateConversation(ctx context.Context, userID, title string) (*chat.Conversation, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, title, now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("sqlite: create conversation: %w", err)
	}

	return &chat.Conversation{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetConversation implements store.Store.
func (s *Store) GetConversation(ctx context.Context, id, userID string) (*chat.Conversation, error) {
	conv, err := s.loadConversation(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.loadMessages(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendMessage implements store.Store.
func (s *Store) AppendMessage(ctx context.Context, id, userID string, msg chat.Message) (*chat.Conversation, error) {
	if _, err := s.loadConversation(ctx, id, userID); err != nil {
		return nil, err
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	metadata := "{}"
	if len(msg.Metadata) > 0 {
		encoded, err := json.Marshal(msg.Metadata)
		if err != nil {
			return nil, fmt.Errorf("sqlite: encode message metadata: %w", err)
		}
		metadata = string(encoded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, seq, role, content, metadata, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = ?), ?, ?, ?, ?)`,
		id, id, string(msg.Role), msg.Content, metadata, msg.Timestamp.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("sqlite: append message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit append: %w", err)
	}

	return s.GetConversation(ctx, id, userID)
}

// SetPreferences implements store.Store.
func (s *Store) SetPreferences(ctx context.Context, id, userID string, prefs chat.Preferences) error {
	encoded, err := json.Marshal(prefs.ToMap())
	if err != nil {
		return fmt.Errorf("sqlite: encode preferences: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET preferences = ?, updated_at = ? WHERE id = ? AND user_id = ? AND active = 1`,
		string(encoded), time.Now().UTC().Format(timeFormat), id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: set preferences: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListConversations implements store.Store. Messages are not loaded; the
// listing is a light index of titles and timestamps.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]*chat.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, preferences, created_at, updated_at
		 FROM conversations WHERE user_id = ? AND active = 1 ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list conversations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var out []*chat.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list conversations: %w", err)
	}
	return out, nil
}

// SoftDelete implements store.Store.
func (s *Store) SoftDelete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET active = 0, updated_at = ? WHERE id = ? AND user_id = ? AND active = 1`,
		time.Now().UTC().Format(timeFormat), id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: soft delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) loadConversation(ctx context.Context, id, userID string) (*chat.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, preferences, created_at, updated_at
		 FROM conversations WHERE id = ? AND user_id = ? AND active = 1`,
		id, userID)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return conv, err
}

func (s *Store) loadMessages(ctx context.Context, conv *chat.Conversation) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, metadata, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY seq`,
		conv.ID)
	if err != nil {
		return fmt.Errorf("sqlite: load messages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	for rows.Next() {
		var role, content, metadata, createdAt string
		if err := rows.Scan(&role, &content, &metadata, &createdAt); err != nil {
			return fmt.Errorf("sqlite: scan message: %w", err)
		}
		msg := chat.Message{Role: chat.Role(role), Content: content}
		msg.Timestamp, _ = time.Parse(timeFormat, createdAt)
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &msg.Metadata); err != nil {
				return fmt.Errorf("sqlite: decode message metadata: %w", err)
			}
		}
		conv.Messages = append(conv.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: load messages: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*chat.Conversation, error) {
	var conv chat.Conversation
	var preferences, createdAt, updatedAt string
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &preferences, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scan conversation: %w", err)
	}
	conv.Active = true
	conv.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	conv.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	if preferences != "" && preferences != "{}" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(preferences), &raw); err != nil {
			return nil, fmt.Errorf("sqlite: decode preferences: %w", err)
		}
		conv.Preferences = chat.PreferencesFromMap(raw)
	}
	return &conv, nil
}
