package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLangChainProviderAgainstOpenAICompatibleServer(t *testing.T) {
	var sawJSONMode bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if format, ok := body["response_format"].(map[string]any); ok && format["type"] == "json_object" {
			sawJSONMode = true
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"test","choices":[{"index":0,"message":{"role":"assistant","content":"{\"Fear\": 64}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer server.Close()

	provider, err := NewLangChainOpenAI("sk-test", server.URL, "test-model")
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	reply, err := provider.Complete(context.Background(), "analyze", true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != `{"Fear": 64}` {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if !sawJSONMode {
		t.Fatalf("expected json mode in request")
	}
}

func TestLangChainOpenAIRequiresKey(t *testing.T) {
	if _, err := NewLangChainOpenAI(" ", "", "m"); !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}
