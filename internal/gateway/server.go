package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())
	r.Handle("/metrics", g.metrics.Handler())

	// Chat and admin endpoints require auth. Not mounted if no token
	// is configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Post("/chat", g.handleChat())
			r.Get("/ws/chat", g.handleChatSocket())
			r.Get("/conversations", g.handleListConversations())
			r.Delete("/conversations/{id}", g.handleDeleteConversation())
		})
	}

	return r
}
