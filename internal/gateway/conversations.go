package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripflow/tripflow/internal/store"
	"github.com/tripflow/tripflow/pkg/chat"
)

// conversationJSON is a list-view snapshot without the message log.
type conversationJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Messages  int    `json:"message_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

const timeLayout = "2006-01-02T15:04:05Z"

// handleListConversations returns the caller's conversations, most recent
// first. The owning user comes from the user_id query parameter.
func (g *Gateway) handleListConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeJSON(w, http.StatusBadRequest, chatResponse{Error: "user_id is required"})
			return
		}

		convs, err := g.store.ListConversations(r.Context(), userID)
		if err != nil {
			g.logger.Error("listing conversations failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, chatResponse{Error: "failed to list conversations"})
			return
		}

		out := make([]conversationJSON, 0, len(convs))
		for _, conv := range convs {
			out = append(out, toConversationJSON(conv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleDeleteConversation soft-deletes one conversation by id.
func (g *Gateway) handleDeleteConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeJSON(w, http.StatusBadRequest, chatResponse{Error: "user_id is required"})
			return
		}

		id := chi.URLParam(r, "id")
		err := g.store.SoftDelete(r.Context(), id, userID)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, chatResponse{Error: "conversation not found"})
		default:
			g.logger.Error("deleting conversation failed", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, chatResponse{Error: "failed to delete conversation"})
		}
	}
}

func toConversationJSON(conv *chat.Conversation) conversationJSON {
	return conversationJSON{
		ID:        conv.ID,
		Title:     conv.Title,
		Messages:  len(conv.Messages),
		CreatedAt: conv.CreatedAt.Format(timeLayout),
		UpdatedAt: conv.UpdatedAt.Format(timeLayout),
	}
}
