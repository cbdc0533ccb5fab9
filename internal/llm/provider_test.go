package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyforge/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"Renal physiology"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText("Filtration happens in the glomerulus."),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "plan"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text() != `{"title":"Renal physiology"}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "where?"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text() != "Filtration happens in the glomerulus." {
		t.Fatalf("unexpected text %q", resp2.Text())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_EmptyTextIsInvalid(t *testing.T) {
	mock := NewMockProvider(MockText("  \n"))
	_, err := mock.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockText(`{"front":"Q"}`))
	_, err := mock.Generate(context.Background(), Request{Schema: flashcardSchema()})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockText("ok"))

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "sys" {
		t.Fatalf("expected system 'sys', got %q", last.System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 0}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeTutor)
	if p := PurposeFrom(ctx); p != PurposeTutor {
		t.Fatalf("expected %q, got %q", PurposeTutor, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		cfg           Config
		wantErr       bool
		notConfigured bool
	}{
		{
			name:          "gemini without key",
			cfg:           Config{Provider: ProviderGemini},
			wantErr:       true,
			notConfigured: true,
		},
		{
			name:    "gemini with key",
			cfg:     Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "g-test"}},
			wantErr: false,
		},
		{
			name:          "anthropic without key",
			cfg:           Config{Provider: ProviderAnthropic},
			wantErr:       true,
			notConfigured: true,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk-or"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: ProviderMock},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.notConfigured && !errors.Is(err, ErrNotConfigured) {
				t.Fatalf("expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := DiscoverConfig(DefaultConfig()); ok {
		t.Fatal("expected no credential to be discovered")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, ok := DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// API_KEY is a Gemini key and outranks the other vendors.
	t.Setenv("API_KEY", "g-key")
	cfg, ok = DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// An explicitly selected provider keeps its own key.
	base := DefaultConfig()
	base.Provider = ProviderAnthropic
	cfg, ok = DiscoverConfig(base)
	if !ok || cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestDefaultConfig_FailFast(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini default, got %q", cfg.Provider)
	}
	if got := resolveModel(cfg.Gemini.Model, geminiModels); got != "gemini-2.5-flash" {
		t.Fatalf("expected gemini-2.5-flash, got %q", got)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("expected a single attempt, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestNewProvider_NotConfigured(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderGemini}, nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewProvider_MockIsWrapped(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock, Timeout: time.Second}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*TimeoutProvider); !ok {
		t.Fatalf("expected outermost TimeoutProvider, got %T", p)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEventSummary, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int) (*store.LLMEventDetail, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByModel(context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage("Hello"), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, ProviderMock, repo, nil)

	ctx := WithPurpose(context.Background(), PurposeTutor)
	req := Request{System: "grounding", Messages: []Message{{Role: RoleUser, Content: "hi"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok := repo.events[0]
	if !ok.Success || ok.Purpose != PurposeTutor || ok.InputTokens != 7 || ok.ResponseBody != "Hello" {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\ngrounding") || !strings.Contains(ok.RequestBody, "[user]\nhi") {
		t.Fatalf("unexpected request body: %q", ok.RequestBody)
	}
	failed := repo.events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

func TestLoggingProvider_TutorSystemPromptIsDigested(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockText("one"), MockText("two"))
	p := WithLogging(mock, ProviderMock, repo, nil)

	notes := strings.Repeat("Renal clearance equals urine concentration times flow over plasma concentration. ", 6000)
	req := Request{System: notes, Messages: []Message{{Role: RoleUser, Content: "explain clearance"}}}

	if _, err := p.Generate(WithPurpose(context.Background(), PurposeTutor), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(WithPurpose(context.Background(), PurposePlan), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tutor := repo.events[0].RequestBody
	if len(tutor) > 2000 {
		t.Fatalf("tutor request body kept %d bytes of system prompt", len(tutor))
	}
	if !strings.Contains(tutor, "[system]\nRenal clearance") || !strings.Contains(tutor, "more characters, sha256 ") {
		t.Fatalf("expected a head and digest of the system prompt, got %q", tutor)
	}
	if !strings.Contains(tutor, "[user]\nexplain clearance") {
		t.Fatalf("expected the user turn in full, got %q", tutor)
	}

	// Plan requests are logged whole; the prompt is sent once per plan.
	if !strings.Contains(repo.events[1].RequestBody, notes) {
		t.Fatal("expected the plan request body to keep the full system prompt")
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockText("fine")), ProviderMock, repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "fine" {
		t.Fatalf("unexpected text %q", resp.Text())
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeoutProvider(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if WithTimeout(blockingProvider{}, 0) != (blockingProvider{}) {
		t.Fatal("expected zero timeout to leave the provider unwrapped")
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gemini-2.5-flash"); c == nil || c.InputPerMTok != 0.3 {
		t.Fatalf("unexpected cost: %+v", c)
	}
	if c := LookupCost("google/gemini-2.5-flash"); c == nil {
		t.Fatal("expected vendor-prefixed ID to resolve")
	}
	if c := LookupCost("nope"); c != nil {
		t.Fatalf("expected nil, got %+v", c)
	}
	cost := ModelCost{InputPerMTok: 1, OutputPerMTok: 2}.Cost(1_000_000, 500_000)
	if cost != 2 {
		t.Fatalf("expected 2, got %f", cost)
	}
}
