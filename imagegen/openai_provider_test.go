package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LinkuDev/dreamina/core"
)

func newOpenAITestProvider(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(&core.Config{
		OpenAIAPIKey:   "sk-test",
		OpenAIBaseURL:  baseURL + "/v1",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	return p
}

func TestOpenAIProviderGenerate(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"created":1,"data":[{"url":"https://img.example/a.png"},{"url":"https://img.example/b.png"}]}`))
	}))
	defer server.Close()

	p := newOpenAITestProvider(t, server.URL)
	urls, err := p.Generate(context.Background(), nil, GenerationRequest{
		Prompt: "a lighthouse at dusk",
		Width:  1024,
		Height: 1024,
		Count:  2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if gotPath != "/v1/images/generations" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["prompt"] != "a lighthouse at dusk" {
		t.Errorf("prompt = %v", gotBody["prompt"])
	}
	if gotBody["size"] != "1024x1024" {
		t.Errorf("size = %v", gotBody["size"])
	}
	if gotBody["n"] != float64(2) {
		t.Errorf("n = %v", gotBody["n"])
	}

	if len(urls) != 2 || urls[0] != "https://img.example/a.png" {
		t.Errorf("urls = %v", urls)
	}
}

func TestOpenAIProviderEmptyData(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"created":1,"data":[]}`))
	}))
	defer server.Close()

	p := newOpenAITestProvider(t, server.URL)
	_, err := p.Generate(context.Background(), nil, GenerationRequest{Prompt: "a cat", Count: 1})
	if err == nil {
		t.Fatal("expected error for empty data array")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (empty data is not retryable)", calls)
	}
}

func TestOpenAIProviderRetriesRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		w.Write([]byte(`{"created":1,"data":[{"url":"https://img.example/a.png"}]}`))
	}))
	defer server.Close()

	p := newOpenAITestProvider(t, server.URL)
	urls, err := p.Generate(context.Background(), nil, GenerationRequest{Prompt: "a cat", Count: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(urls) != 1 {
		t.Errorf("urls = %v", urls)
	}
}

func TestOpenAIProviderBadRequestFailsImmediately(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"prompt rejected","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	p := newOpenAITestProvider(t, server.URL)
	_, err := p.Generate(context.Background(), nil, GenerationRequest{Prompt: "a cat", Count: 1})
	if err == nil {
		t.Fatal("expected error for 400 answer")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx is not retryable)", calls)
	}
}

func TestOpenAIProviderValidation(t *testing.T) {
	p := &OpenAIProvider{}
	if _, err := p.Generate(context.Background(), nil, GenerationRequest{}); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestNewOpenAIProviderValidation(t *testing.T) {
	if _, err := NewOpenAIProvider(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewOpenAIProvider(&core.Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewOpenAIProviderDefaultModel(t *testing.T) {
	p, err := NewOpenAIProvider(&core.Config{OpenAIAPIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if p.Model() != "dall-e-3" {
		t.Errorf("Model() = %q, want dall-e-3", p.Model())
	}
}
