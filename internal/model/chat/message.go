package chat

// Message roles accepted from clients and replayed to the upstream model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a conversation. The ordered message list is
// forwarded verbatim to the upstream model, so order is meaningful.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the payload sent to the upstream chat-completion API.
type CompletionRequest struct {
	Model           string    `json:"model"`
	Messages        []Message `json:"messages"`
	Stream          bool      `json:"stream"`
	ReturnCitations bool      `json:"return_citations"`
}

// CompletionMessage is the assistant message inside a completion choice.
// Some upstream deployments nest the citation list here instead of at the
// top level of the completion.
type CompletionMessage struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Citations []string `json:"citations,omitempty"`
}

// Choice wraps one candidate completion.
type Choice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

// Completion is the buffered upstream response. Raw preserves the exact
// upstream bytes so the proxy can forward the payload verbatim.
type Completion struct {
	ID        string   `json:"id"`
	Model     string   `json:"model"`
	Choices   []Choice `json:"choices"`
	Citations []string `json:"citations,omitempty"`

	Raw []byte `json:"-"`
}

// FirstContent returns the content of the first choice, or "" when the
// upstream returned no choices.
func (c *Completion) FirstContent() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// CitationList returns the citation URLs regardless of whether the upstream
// placed them at the top level or nested under the message.
func (c *Completion) CitationList() []string {
	if c == nil {
		return nil
	}
	if len(c.Citations) > 0 {
		return c.Citations
	}
	if len(c.Choices) > 0 {
		return c.Choices[0].Message.Citations
	}
	return nil
}

// ChunkDelta carries the incremental content of a streamed chunk.
type ChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChunkChoice wraps one streamed candidate.
type ChunkChoice struct {
	Index int        `json:"index"`
	Delta ChunkDelta `json:"delta"`
}

// CompletionChunk is one parsed event of the upstream token stream. The
// upstream repeats the full citation list on chunks that carry one; the
// consumer announces only the suffix it has not seen yet.
type CompletionChunk struct {
	ID        string        `json:"id"`
	Choices   []ChunkChoice `json:"choices"`
	Citations []string      `json:"citations,omitempty"`
}

// DeltaText returns the text delta of the chunk, or "".
func (c *CompletionChunk) DeltaText() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}
