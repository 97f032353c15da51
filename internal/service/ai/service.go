// Package ai talks to the upstream chat-completion API (an
// OpenAI-compatible endpoint with a citations extension). The upstream is a
// black box: requests are forwarded as-is and failures are surfaced to the
// caller without retries.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sportsbuddy/backend/internal/config"
	"github.com/sportsbuddy/backend/internal/model/chat"
)

// ErrMissingCredential is returned before any network call when the
// upstream API key is not configured.
var ErrMissingCredential = errors.New("missing PERPLEXITY_API_KEY")

// UpstreamError carries a non-success upstream response through to the
// proxy layer unmodified.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

// Service issues buffered and streaming completion requests.
type Service struct {
	cfg        config.AIConfig
	httpClient *http.Client

	// streamClient has no timeout: a token stream legitimately outlives
	// any fixed request deadline.
	streamClient *http.Client
}

// NewService builds the upstream client. A missing credential is not an
// error here; it surfaces per-request so the rest of the service can run
// without AI features.
func NewService(cfg config.AIConfig) *Service {
	return &Service{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
	}
}

// Enabled reports whether the upstream credential is configured.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled()
}

// Complete performs a buffered completion call and returns the parsed
// response with the raw upstream bytes preserved.
func (s *Service) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.Completion, error) {
	req.Stream = false

	resp, err := s.post(ctx, s.httpClient, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	completion := &chat.Completion{Raw: raw}
	if err := json.Unmarshal(raw, completion); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}

	log.Debug().Str("model", req.Model).Int("bytes", len(raw)).Msg("upstream completion received")
	return completion, nil
}

// Stream opens a streaming completion call. The returned reader yields one
// parsed chunk per upstream event; the caller must Close it.
func (s *Service) Stream(ctx context.Context, req chat.CompletionRequest) (*StreamReader, error) {
	req.Stream = true

	resp, err := s.post(ctx, s.streamClient, req)
	if err != nil {
		return nil, err
	}

	return newStreamReader(resp.Body), nil
}

// post sends the request and normalizes failures: a missing credential
// never reaches the network, and a non-2xx status becomes an UpstreamError
// carrying the upstream body.
func (s *Service) post(ctx context.Context, client *http.Client, payload chat.CompletionRequest) (*http.Response, error) {
	if !s.cfg.Enabled() {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			raw = []byte(fmt.Sprintf("unreadable error body: %v", readErr))
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	return resp, nil
}
