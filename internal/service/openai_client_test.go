package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func streamChunkJSON(t *testing.T, content string) string {
	t.Helper()
	payload := map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{"index": 0, "delta": map[string]string{"content": content}},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal chunk: %v", err)
	}
	return string(raw)
}

func TestNewOpenAIStreamerRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIStreamer("   ", "", "gpt-4o-mini"); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected ErrAIAPIKeyMissing, got %v", err)
	}
}

func TestOpenAIStreamerRelaysDeltas(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hello", " 🌍", "!"} {
			fmt.Fprintf(w, "data: %s\n\n", streamChunkJSON(t, chunk))
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	streamer, err := NewOpenAIStreamer("sk-test", server.URL+"/v1", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new streamer: %v", err)
	}

	var chunks []string
	text, err := streamer.StreamCompletion(context.Background(), "say hello", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("stream completion: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if text != "Hello 🌍!" {
		t.Fatalf("assembled text mismatch: %q", text)
	}
	if strings.Join(chunks, "") != text {
		t.Fatalf("chunk concatenation must equal full text, got %q", strings.Join(chunks, ""))
	}
}

func TestOpenAIStreamerPropagatesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	streamer, err := NewOpenAIStreamer("sk-test", server.URL+"/v1", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new streamer: %v", err)
	}

	if _, err := streamer.StreamCompletion(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
