package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthOK(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("ok"), defaultLimits())
	srv := newTestServer(t, g)

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != "ok" || health.Store != "ok" || health.Provider != "ok" {
		t.Errorf("health = %+v, want all ok", health)
	}
}

func TestHealthDegradedProvider(t *testing.T) {
	t.Parallel()
	backend := okBackend("ok")
	backend.HealthCheckFunc = func(context.Context) error { return errors.New("backend down") }
	g, _ := newTestGateway(t, backend, defaultLimits())
	srv := newTestServer(t, g)

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", health.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("ok"), defaultLimits())
	srv := newTestServer(t, g)

	postChat(t, srv, chatRequest{Message: "trip to Rome", UserID: "user-1"})

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
