package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PolicyPal/internal/config"
)

func TestChatGPTSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		var body struct {
			Model     string              `json:"model"`
			MaxTokens int                 `json:"max_tokens"`
			Messages  []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Model != "gpt-4o" || body.MaxTokens != 300 || len(body.Messages) != 2 {
			t.Errorf("unexpected request: %+v", body)
		}
		if !strings.Contains(body.Messages[0]["content"], "congressional analyst") {
			t.Errorf("system prompt missing: %q", body.Messages[0]["content"])
		}
		if body.Messages[1]["content"] != "SECTION 1." {
			t.Errorf("user content lost: %q", body.Messages[1]["content"])
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": " Summary. "}}]}`))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{Endpoint: server.URL, Model: "gpt-4o", APIKey: "sk-test", MaxTokens: 300}, "")
	got, err := client.Summarize(context.Background(), "SECTION 1.")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got != "Summary." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestChatGPTSummarizeFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			_, _ = w.Write([]byte(`{"choices": []}`))
			return
		}
		http.Error(w, `{"error": "quota"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	quota := NewChatGPTClient(config.ChatGPTConfig{Endpoint: server.URL, Model: "gpt-4o", APIKey: "k"}, "x")
	if _, err := quota.Summarize(context.Background(), "text"); err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected quota error, got %v", err)
	}

	empty := NewChatGPTClient(config.ChatGPTConfig{Endpoint: server.URL + "/empty", Model: "gpt-4o", APIKey: "k"}, "x")
	if _, err := empty.Summarize(context.Background(), "text"); err == nil {
		t.Fatalf("expected error on empty choices")
	}

	unconfigured := NewChatGPTClient(config.ChatGPTConfig{}, "")
	if _, err := unconfigured.Summarize(context.Background(), "text"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(NewChatGPTClient(config.ChatGPTConfig{}, ""))

	if _, err := reg.Resolve("chatgpt"); err != nil {
		t.Fatalf("resolve chatgpt: %v", err)
	}
	if _, err := reg.Resolve("vertex"); err == nil {
		t.Fatalf("expected error for unregistered backend")
	}
}

func TestSafePromptFallsBackToConfiguredDefault(t *testing.T) {
	t.Parallel()

	if got := safePrompt("   "); got != config.DefaultSummaryInstructions {
		t.Fatalf("blank prompt = %q", got)
	}
	if got := safePrompt(" custom "); got != "custom" {
		t.Fatalf("custom prompt = %q", got)
	}
}
