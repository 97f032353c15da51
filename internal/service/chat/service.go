// Package chat assembles upstream completion requests from caller
// conversations: it validates input, resolves the model selector, and
// prepends the persona and web-search system instructions.
package chat

import (
	"errors"

	"github.com/sportsbuddy/backend/internal/config"
	"github.com/sportsbuddy/backend/internal/model/chat"
	"github.com/sportsbuddy/backend/internal/model/team"
)

// ErrNoMessages rejects conversations with no caller messages.
var ErrNoMessages = errors.New("request body must include messages")

// Service builds completion requests for the configured persona.
type Service struct {
	cfg   config.AIConfig
	teams team.Store
}

// NewService creates the conversation assembler.
func NewService(cfg config.AIConfig, teams team.Store) *Service {
	return &Service{cfg: cfg, teams: teams}
}

// BuildRequest turns a caller conversation into an upstream request. The
// persona prompt and the fresh-web-results preamble are prepended as system
// messages; the caller's messages follow verbatim, in order. The model
// selector falls back to the configured default when absent or not on the
// allow-list.
func (s *Service) BuildRequest(messages []chat.Message, model string, stream bool) (chat.CompletionRequest, error) {
	if len(messages) == 0 {
		return chat.CompletionRequest{}, ErrNoMessages
	}

	combined := make([]chat.Message, 0, len(messages)+2)
	combined = append(combined,
		chat.Message{Role: chat.RoleSystem, Content: PersonaPrompt(s.teams.List(), s.cfg.Timezone)},
		chat.Message{Role: chat.RoleSystem, Content: webResultsPreamble},
	)
	combined = append(combined, messages...)

	return chat.CompletionRequest{
		Model:           s.cfg.ResolveModel(model),
		Messages:        combined,
		Stream:          stream,
		ReturnCitations: true,
	}, nil
}
