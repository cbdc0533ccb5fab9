package llm

import (
	"errors"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "google/gemini-2.5-flash",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "google/gemini-2.5-flash" {
			t.Errorf("model = %q, want %q", p.ModelID(), "google/gemini-2.5-flash")
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		})
		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("friendly names are not mapped", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "gpt-4o-mini",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "gpt-4o-mini" {
			t.Errorf("model = %q, want %q", p.ModelID(), "gpt-4o-mini")
		}
	})

	t.Run("custom base URL", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  "sk-or-test",
			Model:   "anthropic/claude-3-haiku",
			BaseURL: "https://custom.openrouter.example/v1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p == nil {
			t.Fatal("expected non-nil provider")
		}
	})
}
