package chat

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sportsbuddy/backend/internal/service/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebSocket serves one streamed completion per connection: the client
// sends a single chat request, receives the same event records as the SSE
// transport, and the connection closes after the done or error event.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var payload chatRequest
	if err := conn.ReadJSON(&payload); err != nil {
		writeEvent(conn, StreamEvent{Type: EventError, Error: "invalid request payload"})
		return
	}

	req, err := h.chatSvc.BuildRequest(payload.Messages, payload.Model, true)
	if errors.Is(err, chat.ErrNoMessages) {
		writeEvent(conn, StreamEvent{Type: EventError, Error: "request must include messages"})
		return
	}
	if err != nil {
		writeEvent(conn, StreamEvent{Type: EventError, Error: err.Error()})
		return
	}

	stream, err := h.aiSvc.Stream(r.Context(), req)
	if err != nil {
		writeEvent(conn, StreamEvent{Type: EventError, Error: err.Error()})
		return
	}
	defer stream.Close()

	h.pump(stream, func(event StreamEvent) {
		writeEvent(conn, event)
	})
}

func writeEvent(conn *websocket.Conn, event StreamEvent) {
	if err := conn.WriteJSON(event); err != nil {
		log.Error().Err(err).Msg("failed to write websocket event")
	}
}
