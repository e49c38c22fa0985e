package gateway

import (
	"context"
	"net/http"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"` // "ok" or "degraded"
	Store    string `json:"store"`
	Provider string `json:"provider"`
}

// handleHealth reports gateway liveness plus store and provider
// reachability. Returns 200 when everything answers, 503 otherwise.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Store: "ok", Provider: "unchecked"}

		if _, err := g.store.ListConversations(ctx, "healthcheck"); err != nil {
			resp.Status = "degraded"
			resp.Store = err.Error()
		}
		if g.health != nil {
			resp.Provider = "ok"
			if err := g.health.HealthCheck(ctx); err != nil {
				resp.Status = "degraded"
				resp.Provider = err.Error()
			}
		}

		status := http.StatusOK
		if resp.Status == "degraded" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
