// Package chat exposes the chat proxy: buffered completions, an SSE token
// stream, and a websocket fallback for clients behind proxies that buffer
// SSE.
package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	chatmodel "github.com/sportsbuddy/backend/internal/model/chat"
	"github.com/sportsbuddy/backend/internal/service/ai"
	chatservice "github.com/sportsbuddy/backend/internal/service/chat"
	"github.com/sportsbuddy/backend/pkg/utils"
)

// Handler proxies conversations to the upstream model.
type Handler struct {
	chatSvc *chatservice.Service
	aiSvc   *ai.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, aiSvc *ai.Service) *Handler {
	return &Handler{chatSvc: chatSvc, aiSvc: aiSvc}
}

// RegisterRoutes registers the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleCompletion)
	r.Post("/chat/stream", h.handleStream)
	r.Get("/chat/ws", h.handleWebSocket)
}

// chatRequest is the caller payload. A malformed or absent body decodes to
// zero messages, which the service rejects as client error.
type chatRequest struct {
	Messages []chatmodel.Message `json:"messages"`
	Model    string              `json:"model,omitempty"`
}

// StreamEvent is one record of the proxied token stream, for both the SSE
// and websocket transports.
type StreamEvent struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Event discriminators carried in StreamEvent.Type.
const (
	EventDelta  = "delta"
	EventSource = "source"
	EventDone   = "done"
	EventError  = "error"
)

func decodeRequest(r *http.Request) chatRequest {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Treated as an empty conversation; rejected downstream.
		return chatRequest{}
	}
	return payload
}

// handleCompletion forwards the conversation and returns the upstream
// completion payload verbatim.
func (h *Handler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	payload := decodeRequest(r)

	req, err := h.chatSvc.BuildRequest(payload.Messages, payload.Model, false)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "request body must include messages: ChatMessage[]")
		return
	}

	completion, err := h.aiSvc.Complete(r.Context(), req)
	if err != nil {
		respondAIError(w, err)
		return
	}

	utils.RespondRaw(w, http.StatusOK, completion.Raw)
}

// handleStream proxies the upstream token stream as SSE. Input errors are
// reported as plain JSON before the stream is committed; once streaming,
// failures become error events.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	payload := decodeRequest(r)
	req, err := h.chatSvc.BuildRequest(payload.Messages, payload.Model, true)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "request body must include messages: ChatMessage[]")
		return
	}

	stream, err := h.aiSvc.Stream(r.Context(), req)
	if err != nil {
		respondAIError(w, err)
		return
	}
	defer stream.Close()

	requestID := middleware.GetReqID(r.Context())
	log.Info().Str("request", requestID).Str("model", req.Model).Msg("chat stream opened")

	utils.SetupSSEHeaders(w)
	h.pump(stream, func(event StreamEvent) {
		utils.SendSSEChunk(w, flusher, event)
	})
	log.Info().Str("request", requestID).Msg("chat stream closed")
}

// pump drains the upstream stream, emitting delta events for text and one
// source event per newly announced citation URL, in citation-index order.
// The upstream repeats the full citation list; only the unseen suffix is
// forwarded.
func (h *Handler) pump(stream *ai.StreamReader, send func(StreamEvent)) {
	announced := 0
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			send(StreamEvent{Type: EventDone})
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("chat stream failed")
			send(StreamEvent{Type: EventError, Error: err.Error()})
			return
		}

		if text := chunk.DeltaText(); text != "" {
			send(StreamEvent{Type: EventDelta, Text: text})
		}
		for ; announced < len(chunk.Citations); announced++ {
			send(StreamEvent{Type: EventSource, URL: chunk.Citations[announced]})
		}
	}
}

// respondAIError maps upstream-client failures onto the proxy's error
// contract: 500 for configuration problems, 502 carrying the upstream
// status and body for upstream failures.
func respondAIError(w http.ResponseWriter, err error) {
	var upstreamErr *ai.UpstreamError
	if errors.As(err, &upstreamErr) {
		utils.RespondJSON(w, http.StatusBadGateway, map[string]any{
			"error":  "Upstream error",
			"status": upstreamErr.Status,
			"detail": upstreamErr.Body,
		})
		return
	}
	if errors.Is(err, ai.ErrMissingCredential) {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
