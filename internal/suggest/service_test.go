package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func fakeCompletionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream failure", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
}

func serviceAgainst(srv *httptest.Server) *Service {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return newServiceWithConfig(cfg, openai.GPT4oMini)
}

func TestSuggestDisabledWithoutKey(t *testing.T) {
	svc := NewService("", "")
	if svc.Enabled() {
		t.Fatal("expected service disabled without API key")
	}
	if got := svc.Suggest(context.Background(), "1.0.0", "added field"); got != nil {
		t.Fatalf("expected nil suggestion, got %+v", got)
	}
}

func TestSuggestSuccess(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK,
		`{"suggestedVersion":"1.1.0","formalDescription":"Added output field mapping.","impactLevel":"low"}`)
	defer srv.Close()

	svc := serviceAgainst(srv)
	got := svc.Suggest(context.Background(), "1.0.0", "added a field to the output")
	if got == nil {
		t.Fatal("expected a suggestion")
	}
	if got.SuggestedVersion != "1.1.0" {
		t.Errorf("expected version 1.1.0, got %q", got.SuggestedVersion)
	}
	if got.ImpactLevel != ImpactLow {
		t.Errorf("expected normalized impact Low, got %q", got.ImpactLevel)
	}
}

func TestSuggestFailOpenOnUpstreamError(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	svc := serviceAgainst(srv)
	if got := svc.Suggest(context.Background(), "1.0.0", "change"); got != nil {
		t.Fatalf("expected nil suggestion on upstream failure, got %+v", got)
	}
}

func TestSuggestFailOpenOnGarbageContent(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK, "certainly! here is my suggestion:")
	defer srv.Close()

	svc := serviceAgainst(srv)
	if got := svc.Suggest(context.Background(), "1.0.0", "change"); got != nil {
		t.Fatalf("expected nil suggestion for unparseable content, got %+v", got)
	}
}

func TestParseSuggestionStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"suggestedVersion\":\"2.0.0\",\"formalDescription\":\"Reworked interface.\",\"impactLevel\":\"High\"}\n```"

	got, err := parseSuggestion(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SuggestedVersion != "2.0.0" || got.ImpactLevel != ImpactHigh {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
}

func TestParseSuggestionRequiresVersion(t *testing.T) {
	if _, err := parseSuggestion(`{"formalDescription":"x","impactLevel":"Low"}`); err == nil {
		t.Fatal("expected error for missing suggestedVersion")
	}
}

func TestNormalizeImpact(t *testing.T) {
	cases := map[string]ImpactLevel{
		"low":      ImpactLow,
		" HIGH ":   ImpactHigh,
		"Medium":   ImpactMedium,
		"critical": ImpactMedium,
		"":         ImpactMedium,
	}
	for raw, want := range cases {
		if got := normalizeImpact(raw); got != want {
			t.Errorf("normalizeImpact(%q) = %q, want %q", raw, got, want)
		}
	}
}
