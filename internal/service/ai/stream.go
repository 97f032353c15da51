package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sportsbuddy/backend/internal/model/chat"
)

// doneSentinel terminates an SSE completion stream.
const doneSentinel = "[DONE]"

// StreamReader turns the upstream SSE byte stream into parsed completion
// chunks. Transport chunks do not align with event boundaries, so the
// reader buffers raw bytes, splits on newlines, carries the unterminated
// remainder forward, and interprets each complete line independently.
type StreamReader struct {
	body io.ReadCloser

	buf     bytes.Buffer
	scratch []byte
	done    bool
}

func newStreamReader(body io.ReadCloser) *StreamReader {
	return &StreamReader{
		body:    body,
		scratch: make([]byte, 4096),
	}
}

// Recv returns the next chunk of the stream. It returns io.EOF after the
// upstream sends its done sentinel or closes the connection.
func (r *StreamReader) Recv() (*chat.CompletionChunk, error) {
	for {
		if r.done {
			return nil, io.EOF
		}

		if line, ok := r.nextLine(); ok {
			chunk, err := r.parseLine(line)
			if err != nil {
				return nil, err
			}
			if chunk == nil {
				continue
			}
			return chunk, nil
		}

		n, err := r.body.Read(r.scratch)
		if n > 0 {
			r.buf.Write(r.scratch[:n])
		}
		if err == io.EOF {
			r.done = true
			// A final unterminated line is still a complete event once
			// the transport closes.
			if rest := strings.TrimSpace(r.buf.String()); rest != "" {
				r.buf.Reset()
				return r.parseTail(rest)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("read upstream stream: %w", err)
		}
	}
}

// Close releases the underlying response body.
func (r *StreamReader) Close() error {
	return r.body.Close()
}

// nextLine pops one newline-terminated line from the buffer, leaving any
// partial trailing line in place.
func (r *StreamReader) nextLine() (string, bool) {
	raw := r.buf.Bytes()
	idx := bytes.IndexByte(raw, '\n')
	if idx < 0 {
		return "", false
	}

	line := string(raw[:idx])
	r.buf.Next(idx + 1)
	return strings.TrimRight(line, "\r"), true
}

// parseLine interprets one complete SSE line. Blank separator lines and
// non-data fields yield no chunk; the done sentinel flips the reader into
// its terminal state.
func (r *StreamReader) parseLine(line string) (*chat.CompletionChunk, error) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "data:") {
		return nil, nil
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if data == doneSentinel {
		r.done = true
		return nil, nil
	}

	chunk := &chat.CompletionChunk{}
	if err := json.Unmarshal([]byte(data), chunk); err != nil {
		return nil, fmt.Errorf("decode stream chunk: %w", err)
	}
	return chunk, nil
}

func (r *StreamReader) parseTail(rest string) (*chat.CompletionChunk, error) {
	chunk, err := r.parseLine(rest)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, io.EOF
	}
	return chunk, nil
}
