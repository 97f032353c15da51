package storylines

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportsbuddy/backend/internal/config"
	"github.com/sportsbuddy/backend/internal/service/ai"
	"github.com/sportsbuddy/backend/internal/service/storyline"
)

func setupRouter(t *testing.T, upstream http.HandlerFunc) *chi.Mux {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := config.AIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}
	handler := New(storyline.NewService(ai.NewService(cfg), "sonar"))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/storylines", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func completionWith(content string) string {
	payload := map[string]any{
		"id": "c1",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestStorylinesRejectsEmptyItems(t *testing.T) {
	called := false
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		called = true
	})

	for _, body := range []string{`{"items":[]}`, `{}`, `nonsense`} {
		resp := postJSON(r, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}
	if called {
		t.Fatal("empty request reached the upstream")
	}
}

func TestStorylinesReturnsParsedMap(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(completionWith(`{"FC Barcelona":"Barça chase a third straight league win against Sevilla."}`)))
	})

	resp := postJSON(r, `{"items":[{"teamName":"FC Barcelona","opponent":"Sevilla","competition":"La Liga"}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Storylines map[string]string `json:"storylines"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(body.Storylines["FC Barcelona"], "Sevilla") {
		t.Fatalf("unexpected storylines: %+v", body.Storylines)
	}
}

func TestStorylinesDegradesToRawText(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(completionWith("I could not come up with storylines today.")))
	})

	resp := postJSON(r, `{"items":[{"teamName":"FC Barcelona","opponent":"Sevilla"}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Storylines map[string]string `json:"storylines"`
		Raw        string            `json:"raw"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Storylines != nil {
		t.Fatalf("expected nil storylines, got %+v", body.Storylines)
	}
	if !strings.Contains(body.Raw, "could not come up") {
		t.Fatalf("raw text not forwarded: %q", body.Raw)
	}
}

func TestStorylinesUpstreamErrorBecomes502(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	resp := postJSON(r, `{"items":[{"teamName":"FC Barcelona","opponent":"Sevilla"}]}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}

	var body struct {
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Status != http.StatusTooManyRequests || !strings.Contains(body.Detail, "rate limited") {
		t.Fatalf("upstream failure not preserved: %+v", body)
	}
}
