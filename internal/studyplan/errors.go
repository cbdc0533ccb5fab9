package studyplan

import (
	"errors"
	"fmt"

	"github.com/abhisek/studyforge/internal/llm"
)

// Kind classifies a Content Provider failure.
type Kind int

const (
	// KindProvider means the call itself failed: network, quota, outage.
	KindProvider Kind = iota

	// KindNotConfigured means no credential is available. No call was made.
	KindNotConfigured

	// KindMalformed means the provider answered without a usable payload:
	// no text, invalid JSON, or content breaking the plan invariants.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	case KindMalformed:
		return "malformed response"
	default:
		return "provider error"
	}
}

// ProviderError is returned by every Service operation that fails.
type ProviderError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindProvider if err is not
// a ProviderError.
func KindOf(err error) Kind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindProvider
}

// classify wraps an llm error into a ProviderError of the right kind.
func classify(op string, err error) *ProviderError {
	kind := KindProvider
	var invalid *llm.ErrInvalidResponse
	var truncated *llm.ErrMaxTokensExceeded
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		kind = KindNotConfigured
	case errors.As(err, &invalid), errors.As(err, &truncated):
		kind = KindMalformed
	}
	return &ProviderError{Kind: kind, Op: op, Err: err}
}

// Fallback texts shown in place of a tutor reply.
const (
	MissingKeyReply  = "Error: missing API key."
	UnavailableReply = "Sorry, I can't answer right now. Please try again."
)

// FallbackReply returns the inline tutor message for a failed chat.
func FallbackReply(err error) string {
	if KindOf(err) == KindNotConfigured {
		return MissingKeyReply
	}
	return UnavailableReply
}

// NoticeText returns the blocking notice shown when plan generation fails.
func NoticeText(err error) string {
	switch KindOf(err) {
	case KindNotConfigured:
		return "No API key configured. Set GEMINI_API_KEY (or another provider key) and restart."
	case KindMalformed:
		return "The AI returned an unusable study plan. Please try again."
	default:
		return "An error occurred while generating the plan. Check your API key or try a shorter text."
	}
}
