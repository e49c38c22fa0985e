package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tripflow/tripflow/internal/conversation"
	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/intel"
	"github.com/tripflow/tripflow/internal/memory"
	"github.com/tripflow/tripflow/internal/proactive"
	"github.com/tripflow/tripflow/internal/provider"
	"github.com/tripflow/tripflow/internal/provider/providertest"
	"github.com/tripflow/tripflow/internal/ratelimit"
	"github.com/tripflow/tripflow/internal/recovery"
	"github.com/tripflow/tripflow/internal/store"
)

const testToken = "test-token"

// okBackend returns a mock whose Generate and HealthCheck always succeed.
func okBackend(reply string) *providertest.Mock {
	return &providertest.Mock{
		GenerateFunc: func(context.Context, provider.Request) (provider.Response, error) {
			return provider.Response{Content: reply}, nil
		},
		HealthCheckFunc: func(context.Context) error { return nil },
	}
}

// newTestGateway wires a gateway over in-memory collaborators.
func newTestGateway(t *testing.T, backend *providertest.Mock, limits ratelimit.Config) (*Gateway, store.Store) {
	t.Helper()
	st := store.NewMemStore()
	handler := conversation.New(st, backend, dedup.New[provider.Response](dedup.Config{}),
		conversation.Options{
			Analyzer: intel.NewKeywordAnalyzer(nil),
			Memory:   memory.New(nil),
		}, nil)

	g := New(Config{Auth: AuthConfig{BearerToken: testToken}}, Deps{
		Handler:   handler,
		Store:     st,
		Limiter:   ratelimit.New(limits),
		Recovery:  recovery.New(rand.New(rand.NewSource(1)), nil),
		Proactive: proactive.New(),
		Health:    backend,
	}, nil)
	return g, st
}

// newTestServer serves the gateway router over httptest.
func newTestServer(t *testing.T, g *Gateway) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(g.buildRouter())
	t.Cleanup(srv.Close)
	return srv
}

// postChat sends one authenticated turn and decodes the response.
func postChat(t *testing.T, srv *httptest.Server, req chatRequest) (chatResponse, *http.Response) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, srv.URL+"/chat", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+testToken)

	httpResp, err := srv.Client().Do(httpReq)
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer httpResp.Body.Close()

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, httpResp
}

func defaultLimits() ratelimit.Config {
	return ratelimit.Config{MaxRequests: 100, Window: time.Minute}
}
