package llm

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/store"
)

// LoggingProvider is a decorator that records every LLM request in the
// request log and emits a structured log line for it.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *zap.Logger
}

// WithLogging wraps a Provider with request logging. A nil repo skips the
// request log; a nil logger is replaced with a no-op logger.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{
		inner:     p,
		provider:  provider,
		eventRepo: repo,
		logger:    logger.Named("llm"),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req, purpose),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", data.Model),
		zap.String("purpose", purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Info("llm request", fields...)
	}

	if l.eventRepo != nil {
		// The request log is diagnostic; a write failure never fails the call.
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("append llm request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// tutorSystemHead is how much of a tutor system prompt the request log keeps.
// Every tutor turn repeats the whole document, so the rest is reduced to a
// digest that still shows whether two turns saw the same notes.
const tutorSystemHead = 400

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request, purpose string) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		if purpose == PurposeTutor {
			writeSystemDigest(&b, req.System)
		} else {
			b.WriteString(req.System)
		}
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeSystemDigest(b *strings.Builder, system string) {
	runes := []rune(system)
	if len(runes) <= tutorSystemHead {
		b.WriteString(system)
		return
	}
	b.WriteString(string(runes[:tutorSystemHead]))
	fmt.Fprintf(b, "\n[... %d more characters, sha256 %x]", len(runes)-tutorSystemHead, sha256.Sum256([]byte(system)))
}
