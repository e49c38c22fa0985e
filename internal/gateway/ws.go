package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

// handleChatSocket upgrades GET /ws/chat and runs the turn loop over the
// connection: each text frame is a chatRequest, each reply a chatResponse.
func (g *Gateway) handleChatSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()

		ctx := r.Context()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				// A close frame from the client is a clean disconnect,
				// not an internal error.
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					_ = conn.Close(websocket.StatusNormalClosure, "")
				}
				return
			}

			var req chatRequest
			if err := json.Unmarshal(data, &req); err != nil {
				g.writeFrame(ctx, conn, chatResponse{Error: "invalid request"})
				continue
			}

			resp, _, _ := g.processTurn(ctx, req)
			g.writeFrame(ctx, conn, resp)
		}
	}
}

func (g *Gateway) writeFrame(ctx context.Context, conn *websocket.Conn, resp chatResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		g.logger.Error("marshaling websocket reply failed", "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Warn("websocket write failed", "error", err)
	}
}
