package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobtracker-backend/internal/ai"
)

func TestGenerateSendsPromptAndReturnsContent(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"SUBJECT: Hi\n\nBody"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o-mini", time.Second, WithBaseURL(server.URL))
	out, err := client.Generate(context.Background(), "write an email")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "SUBJECT: Hi\n\nBody" {
		t.Fatalf("unexpected output %q", out)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", got["model"])
	}
	if _, ok := got["temperature"]; !ok {
		t.Fatalf("expected temperature for non gpt-5 model")
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", got["messages"])
	}
}

func TestGenerateOmitsTemperatureForGPT5(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewClient("k", "gpt-5-mini", time.Second, WithBaseURL(server.URL))
	if _, err := client.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := got["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	client := NewClient("k", "", time.Second, WithBaseURL(server.URL))
	_, err := client.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	client := NewClient("", "", time.Second)
	if _, err := client.Generate(context.Background(), "p"); !errors.Is(err, ai.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
