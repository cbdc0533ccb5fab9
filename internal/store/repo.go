package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventSummary is one row of the request log listing.
type LLMEventSummary struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEventDetail is a full request log entry including bodies.
type LLMEventDetail struct {
	LLMEventSummary
	RequestBody  string
	ResponseBody string
}

// LLMUsageStats aggregates requests per purpose.
type LLMUsageStats struct {
	Purpose      string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// LLMModelUsage aggregates token usage per model, for cost estimates.
type LLMModelUsage struct {
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents lists events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventSummary, error)

	// GetLLMEvent returns one event with bodies, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventDetail, error)

	// LLMUsageByPurpose aggregates the log per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates the log per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
