package studyplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/llm"
)

const (
	opGenerate = "generate plan"
	opChat     = "chat"
)

// Service is the Content Provider client: it turns notes into a plan and
// answers tutor questions grounded in the notes.
type Service struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a Service. A nil provider means no credential was found:
// every call fails with KindNotConfigured without touching the network.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		config:   cfg.withDefaults(),
		logger:   logger.Named("studyplan"),
	}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// GeneratePlan asks the provider for a four day plan covering content.
// Only the first MaxContentRunes runes of content are sent.
func (s *Service) GeneratePlan(ctx context.Context, content string) (*StudyPlan, error) {
	if s.provider == nil {
		return nil, &ProviderError{Kind: KindNotConfigured, Op: opGenerate, Err: llm.ErrNotConfigured}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePlan)
	start := time.Now()
	s.logger.Info("generating plan", zap.Int("content_runes", len([]rune(content))))

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: buildPlanSystem(s.config),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanPrompt(content, s.config)},
		},
		Schema:      PlanSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		perr := classify(opGenerate, err)
		s.logger.Warn("plan generation failed",
			zap.Stringer("kind", perr.Kind), zap.Duration("latency", time.Since(start)), zap.Error(err))
		return nil, perr
	}

	plan, err := decodePlan(resp.Content)
	if err != nil {
		s.logger.Warn("plan rejected", zap.Error(err))
		return nil, &ProviderError{Kind: KindMalformed, Op: opGenerate, Err: err}
	}

	s.logger.Info("plan generated",
		zap.String("title", plan.Title),
		zap.Duration("latency", time.Since(start)),
		zap.Int("output_tokens", resp.Usage.OutputTokens))
	return plan, nil
}

// decodePlan parses and checks a plan payload.
func decodePlan(raw json.RawMessage) (*StudyPlan, error) {
	var plan StudyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := Validate(&plan); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

// Chat sends message to the tutor with history replayed as prior turns.
// sourceText grounds the answer; only its first MaxContentRunes runes are sent.
func (s *Service) Chat(ctx context.Context, message, sourceText string, history []ChatMessage) (string, error) {
	if s.provider == nil {
		return "", &ProviderError{Kind: KindNotConfigured, Op: opChat, Err: llm.ErrNotConfigured}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeTutor)

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == RoleModel {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      buildTutorSystem(sourceText, s.config),
		Messages:    msgs,
		MaxTokens:   s.config.ChatMaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		perr := classify(opChat, err)
		s.logger.Warn("tutor chat failed", zap.Stringer("kind", perr.Kind), zap.Error(err))
		return "", perr
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", &ProviderError{Kind: KindMalformed, Op: opChat, Err: fmt.Errorf("empty reply")}
	}
	return reply, nil
}
