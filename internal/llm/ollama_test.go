package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ollamaServer(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := NewOllamaProvider(Config{BaseURL: srv.URL, Model: "qwen2.5:14b"})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	return provider
}

func TestOllamaProvider_SpotMissing(t *testing.T) {
	provider := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("expected json format, got %q", req.Format)
		}
		if req.Options.Temperature != 0 {
			t.Errorf("spotting must run at temperature 0, got %v", req.Options.Temperature)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:     "qwen2.5:14b",
			Response:  `{"missing_people": ["Nguyễn Thị Hoa"]}`,
			Done:      true,
			EvalCount: 12,
		})
	})

	resp, err := provider.SpotMissing(context.Background(), SpotRequest{
		PassageText: "đoạn văn",
		KnownNames:  []string{"Phạm Văn Sử"},
	})
	if err != nil {
		t.Fatalf("SpotMissing: %v", err)
	}
	if len(resp.MissingNames) != 1 || resp.MissingNames[0] != "Nguyễn Thị Hoa" {
		t.Errorf("missing names = %v", resp.MissingNames)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("tokens used = %d, want 12", resp.TokensUsed)
	}
}

func TestOllamaProvider_SpotMissing_APIError(t *testing.T) {
	provider := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	})

	if _, err := provider.SpotMissing(context.Background(), SpotRequest{PassageText: "x"}); err == nil {
		t.Fatal("expected API error")
	}
}

func TestOllamaProvider_SpotMissing_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	if _, err := provider.SpotMissing(context.Background(), SpotRequest{PassageText: "x"}); err == nil {
		t.Fatal("expected error when no model is configured")
	}
}
