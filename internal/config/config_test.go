package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/llm"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "English", cfg.Plan.Language)
	assert.Equal(t, "medicine and surgery", cfg.Plan.Subject)
	assert.Equal(t, 16384, cfg.Plan.MaxTokens)
	assert.Equal(t, "info", cfg.Log.Level)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.Empty(t, lc.APIKey())
	assert.Equal(t, 1, lc.Retry.MaxAttempts)
	assert.ErrorIs(t, lc.Validate(), llm.ErrNotConfigured)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearKeyEnv(t)

	path := filepath.Join(t.TempDir(), "studyforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  timeout: 45s
  max_attempts: 3
  openai:
    api_key: sk-file
    model: gpt-4.1-mini
plan:
  language: Polish
  temperature: 0.2
log:
  level: debug
db: /tmp/studyforge-test.db
`), 0o644))

	t.Setenv("STUDYFORGE_PLAN_SUBJECT", "pharmacology")
	t.Setenv("STUDYFORGE_LLM_OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Polish", cfg.Plan.Language)
	assert.Equal(t, "pharmacology", cfg.Plan.Subject, "env overrides default")
	assert.InDelta(t, 0.2, cfg.Plan.Temperature, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/studyforge-test.db", cfg.DB)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "sk-env", lc.OpenAI.APIKey, "env overrides file")
	assert.Equal(t, "gpt-4.1-mini", lc.OpenAI.Model)
	assert.Equal(t, 45*time.Second, lc.Timeout)
	assert.Equal(t, 3, lc.Retry.MaxAttempts)

	pc := cfg.PlanConfig()
	assert.Equal(t, "Polish", pc.Language)
	assert.Equal(t, "pharmacology", pc.Subject)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearKeyEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLLMConfig_DiscoversVendorKey(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("API_KEY", "g-from-api-key")

	cfg, err := Load("")
	require.NoError(t, err)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.Equal(t, "g-from-api-key", lc.Gemini.APIKey)
	assert.Equal(t, "gemini-flash", lc.Gemini.Model)
	assert.NoError(t, lc.Validate())
}

func TestLLMConfig_GeminiBaseURL(t *testing.T) {
	clearKeyEnv(t)

	path := filepath.Join(t.TempDir(), "studyforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  gemini:
    api_key: g-file
    base_url: http://127.0.0.1:9999/gemini/
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	lc := cfg.LLMConfig()
	assert.Equal(t, "g-file", lc.Gemini.APIKey)
	assert.Equal(t, "http://127.0.0.1:9999/gemini/", lc.Gemini.BaseURL)
}
