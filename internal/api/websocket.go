package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

// wsRequest is one inbound WebSocket message.
type wsRequest struct {
	ID string `json:"id,omitempty"`
	RecommendationRequest
}

// wsResponse answers one wsRequest; exactly one of Recommendations and
// Error is set.
type wsResponse struct {
	ID              string                         `json:"id,omitempty"`
	Recommendations *adaptive.RecommendationBundle `json:"recommendations,omitempty"`
	Error           string                         `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer c.CloseNow()
	c.SetReadLimit(maxBodyBytes)

	if err := s.serveWebSocket(r.Context(), c); err != nil {
		slog.Warn("websocket session ended", "error", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

// serveWebSocket answers requests until the peer closes the connection.
func (s *Server) serveWebSocket(ctx context.Context, c *websocket.Conn) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			return err
		}

		resp := s.answer(ctx, typ, data)
		if err := wsjson.Write(ctx, c, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) answer(ctx context.Context, typ websocket.MessageType, data []byte) wsResponse {
	if typ != websocket.MessageText {
		return wsResponse{Error: "expected a text message"}
	}

	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	}
	if err := validateRecommendationRequest(req.RecommendationRequest); err != nil {
		return wsResponse{ID: req.ID, Error: err.Error()}
	}

	bundle := s.engine.GenerateRecommendations(ctx, req.Student, s.catalogFor(req.Courses), req.Progress)
	return wsResponse{ID: req.ID, Recommendations: &bundle}
}
