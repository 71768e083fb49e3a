package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider := NewOllamaProvider()

	if provider.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", provider.baseURL, DefaultOllamaURL)
	}
	if provider.model != DefaultOllamaModel {
		t.Errorf("model = %s, want %s", provider.model, DefaultOllamaModel)
	}
	if provider.dimensions != DefaultDimensions {
		t.Errorf("dimensions = %d, want %d", provider.dimensions, DefaultDimensions)
	}
	if provider.client == nil {
		t.Error("client should not be nil")
	}
}

func TestNewOllamaProvider_WithOptions(t *testing.T) {
	customURL := "http://custom:8080"
	customModel := "custom-model"
	customDimensions := 768
	customTimeout := 60 * time.Second

	provider := NewOllamaProvider(
		WithBaseURL(customURL),
		WithModel(customModel),
		WithDimensions(customDimensions),
		WithTimeout(customTimeout),
	)

	if provider.baseURL != customURL {
		t.Errorf("baseURL = %s, want %s", provider.baseURL, customURL)
	}
	if provider.model != customModel {
		t.Errorf("model = %s, want %s", provider.model, customModel)
	}
	if provider.dimensions != customDimensions {
		t.Errorf("dimensions = %d, want %d", provider.dimensions, customDimensions)
	}
	if provider.client.Timeout != customTimeout {
		t.Errorf("timeout = %v, want %v", provider.client.Timeout, customTimeout)
	}
}

func TestOllamaProvider_Embed(t *testing.T) {
	vector := make([]float32, DefaultDimensions)
	vector[0] = 0.25

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathEmbeddings {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Prompt != "some text" {
			t.Errorf("prompt = %q, want %q", req.Prompt, "some text")
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: vector})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	got, err := provider.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(got) != DefaultDimensions {
		t.Fatalf("got %d dimensions, want %d", len(got), DefaultDimensions)
	}
	if got[0] != 0.25 {
		t.Errorf("got[0] = %v, want 0.25", got[0])
	}
}

func TestOllamaProvider_Embed_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{1, 2, 3}})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	if _, err := provider.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error for wrong dimensions, got nil")
	}
}

func TestOllamaProvider_Embed_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	if _, err := provider.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error for server failure, got nil")
	}
}

func TestOllamaProvider_HasModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathTags {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ollamaTagsResponse{Models: []ollamaModel{
			{Name: "all-minilm:l6-v2"},
			{Name: "llama3:8b"},
		}})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	has, err := provider.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if !has {
		t.Error("expected model to be present")
	}

	other := NewOllamaProvider(WithBaseURL(server.URL), WithModel("missing-model"))
	has, err = other.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if has {
		t.Error("expected model to be absent")
	}
}

func TestOllamaProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*OllamaProvider)(nil)
	var _ Provider = (*OpenAIProvider)(nil)
}
