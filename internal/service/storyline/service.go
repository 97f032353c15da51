// Package storyline asks the upstream model for one-sentence hooks for a
// batch of upcoming fixtures. The text is decorative, so the call skips
// citations and malformed model output degrades to raw text instead of an
// error.
package storyline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	chatmodel "github.com/sportsbuddy/backend/internal/model/chat"
	"github.com/sportsbuddy/backend/internal/model/games"
	"github.com/sportsbuddy/backend/internal/service/ai"
)

const systemPrompt = "You are a helpful assistant that returns exactly and only the JSON requested."

// Service generates per-fixture storylines.
type Service struct {
	ai    *ai.Service
	model string
}

// NewService wires the generator to the upstream client and the configured
// storyline model.
func NewService(aiSvc *ai.Service, model string) *Service {
	return &Service{ai: aiSvc, model: model}
}

// Generate asks for one storyline per fixture and parses the reply as a
// team-name-to-sentence map. When the model's output is not valid JSON the
// raw text is returned with a nil map; only upstream failures are errors.
func (s *Service) Generate(ctx context.Context, items []games.FixtureSummary) (map[string]string, string, error) {
	req := chatmodel.CompletionRequest{
		Model: s.model,
		Messages: []chatmodel.Message{
			{Role: chatmodel.RoleSystem, Content: systemPrompt},
			{Role: chatmodel.RoleUser, Content: buildPrompt(items)},
		},
		ReturnCitations: false,
	}

	completion, err := s.ai.Complete(ctx, req)
	if err != nil {
		return nil, "", err
	}

	content := completion.FirstContent()
	if strings.TrimSpace(content) == "" {
		// An empty reply counts as zero storylines, not malformed output.
		return map[string]string{}, "", nil
	}
	storylines, err := parseStorylines(content)
	if err != nil {
		log.Warn().Err(err).Msg("storyline output is not valid JSON, returning raw text")
		return nil, content, nil
	}
	return storylines, "", nil
}

func buildPrompt(items []games.FixtureSummary) string {
	var b strings.Builder
	b.WriteString("Return ONE concise, single-sentence storyline for each of the following upcoming games. ")
	b.WriteString("Keep it factual and current, avoid emojis, and do not include sources or extra commentary. ")
	b.WriteString("Output as a compact JSON object that maps the team name to its one-sentence storyline. ")
	b.WriteString("Only return the JSON, nothing else.\n\nTeams and fixtures:\n")

	for _, g := range items {
		fmt.Fprintf(&b, "- %s vs %s", g.TeamName, g.Opponent)
		if g.Competition != "" {
			fmt.Fprintf(&b, " (%s)", g.Competition)
		}
		if g.DatetimeUTC != "" {
			fmt.Fprintf(&b, " on %s", g.DatetimeUTC)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// parseStorylines decodes the model reply, tolerating prose or code fences
// around the object by retrying on the outermost brace span.
func parseStorylines(content string) (map[string]string, error) {
	trimmed := strings.TrimSpace(content)

	out := map[string]string{}
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		return out, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}
	out = map[string]string{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &out); err != nil {
		return nil, err
	}
	return out, nil
}
