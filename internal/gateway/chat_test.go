package gateway

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tripflow/tripflow/internal/provider"
	"github.com/tripflow/tripflow/internal/ratelimit"
)

func TestChatTurn(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("Paris is lovely in spring."), defaultLimits())
	srv := newTestServer(t, g)

	resp, httpResp := postChat(t, srv, chatRequest{Message: "I want to visit Paris", UserID: "user-1"})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}
	if resp.Response != "Paris is lovely in spring." {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.ConversationID == "" {
		t.Error("ConversationID is empty")
	}
	if len(resp.Suggestions) == 0 || len(resp.Suggestions) > 3 {
		t.Errorf("len(Suggestions) = %d, want 1..3", len(resp.Suggestions))
	}
	if len(resp.Anticipated) == 0 {
		t.Error("Anticipated is empty")
	}
}

func TestChatContinuesConversation(t *testing.T) {
	t.Parallel()
	backend := okBackend("Noted.")
	g, _ := newTestGateway(t, backend, defaultLimits())
	srv := newTestServer(t, g)

	first, _ := postChat(t, srv, chatRequest{Message: "trip to Rome please", UserID: "user-1"})
	second, httpResp := postChat(t, srv, chatRequest{
		Message:        "what about hotels there",
		ConversationID: first.ConversationID,
		UserID:         "user-1",
	})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}
	if second.ConversationID != first.ConversationID {
		t.Errorf("ConversationID = %q, want %q", second.ConversationID, first.ConversationID)
	}
}

func TestChatRateLimited(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("ok"), ratelimit.Config{MaxRequests: 1, Window: time.Minute})
	srv := newTestServer(t, g)

	if _, httpResp := postChat(t, srv, chatRequest{Message: "trip to Rome", UserID: "user-1"}); httpResp.StatusCode != http.StatusOK {
		t.Fatalf("first status = %d, want 200", httpResp.StatusCode)
	}
	resp, httpResp := postChat(t, srv, chatRequest{Message: "trip to Rome again", UserID: "user-1"})
	if httpResp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", httpResp.StatusCode)
	}
	if got := httpResp.Header.Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want %q", got, "0")
	}
	if resp.Error == "" {
		t.Error("rate-limited response carries no error")
	}
}

func TestChatOffTopicRecovery(t *testing.T) {
	t.Parallel()
	backend := okBackend("should not be called")
	g, _ := newTestGateway(t, backend, defaultLimits())
	srv := newTestServer(t, g)

	resp, httpResp := postChat(t, srv, chatRequest{
		Message: "please fix my broken dishwasher today",
		UserID:  "user-1",
	})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}
	if !resp.Recovered {
		t.Fatal("Recovered = false, want true")
	}
	if resp.Response == "" {
		t.Error("recovery response is empty")
	}
	if calls := backend.GenerateCalls(); calls != 0 {
		t.Errorf("backend calls = %d, want 0", calls)
	}
}

func TestChatOffTopicRecoveryMentionsLastDestination(t *testing.T) {
	t.Parallel()
	backend := okBackend("Paris is a wonderful choice!")
	g, _ := newTestGateway(t, backend, defaultLimits())
	srv := newTestServer(t, g)

	first, httpResp := postChat(t, srv, chatRequest{
		Message: "I want to visit Paris",
		UserID:  "user-1",
	})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}

	resp, httpResp := postChat(t, srv, chatRequest{
		Message:        "please fix my broken dishwasher today",
		ConversationID: first.ConversationID,
		UserID:         "user-1",
	})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}
	if !resp.Recovered {
		t.Fatal("Recovered = false, want true")
	}
	if want := "Were you still interested in Paris?"; !strings.Contains(resp.Response, want) {
		t.Errorf("Response = %q, want it to contain %q", resp.Response, want)
	}
}

func TestChatUnknownConversation(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("ok"), defaultLimits())
	srv := newTestServer(t, g)

	_, httpResp := postChat(t, srv, chatRequest{
		Message:        "trip to Rome",
		ConversationID: "missing",
		UserID:         "user-1",
	})
	if httpResp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", httpResp.StatusCode)
	}
}

func TestChatValidation(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t, okBackend("ok"), defaultLimits())
	srv := newTestServer(t, g)

	tests := []struct {
		name string
		req  chatRequest
	}{
		{"empty message", chatRequest{UserID: "user-1"}},
		{"blank message", chatRequest{Message: "   ", UserID: "user-1"}},
		{"missing user", chatRequest{Message: "trip to Rome"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, httpResp := postChat(t, srv, tt.req)
			if httpResp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", httpResp.StatusCode)
			}
		})
	}
}

func TestProcessTurnAbsorbsBackendFailure(t *testing.T) {
	t.Parallel()
	backend := okBackend("")
	backend.GenerateFunc = func(context.Context, provider.Request) (provider.Response, error) {
		return provider.Response{}, context.DeadlineExceeded
	}
	g, _ := newTestGateway(t, backend, defaultLimits())

	resp, status, _ := g.processTurn(context.Background(), chatRequest{Message: "trip to Rome", UserID: "u"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(resp.Response, "having trouble processing") {
		t.Errorf("Response = %q, want the timeout fallback", resp.Response)
	}
}
