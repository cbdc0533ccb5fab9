package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const tableLLMRequestEvents = "llm_request_events"

const (
	colID           = "id"
	colSequence     = "sequence"
	colTimestamp    = "timestamp"
	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequestBody  = "request_body"
	colResponseBody = "response_body"
)

var summaryColumns = []string{
	colID, colSequence, colTimestamp, colProvider, colModel, colPurpose,
	colInputTokens, colOutputTokens, colLatencyMs, colSuccess, colErrorMessage,
}

// eventRepo implements EventRepo with ent's SQL builder and the sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableLLMRequestEvents).
		Columns(
			colSequence, colTimestamp, colProvider, colModel, colPurpose,
			colInputTokens, colOutputTokens, colLatencyMs, colSuccess,
			colErrorMessage, colRequestBody, colResponseBody,
		).
		Values(
			seqNum, r.clock().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, boolToInt(data.Success),
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventSummary, error) {
	t := entsql.Table(tableLLMRequestEvents)
	sel := entsql.Dialect(dialect.SQLite).
		Select(summaryColumns...).
		From(t).
		OrderBy(entsql.Desc(colSequence))

	var preds []*entsql.Predicate
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ(colPurpose, opts.Purpose))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(colSequence, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(colSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(colTimestamp, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(colTimestamp, opts.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var records []LLMEventSummary
	for rows.Next() {
		var rec LLMEventSummary
		if err := scanSummary(&rows, &rec, nil); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventDetail, error) {
	cols := append(append([]string{}, summaryColumns...), colRequestBody, colResponseBody)
	query, args := entsql.Dialect(dialect.SQLite).
		Select(cols...).
		From(entsql.Table(tableLLMRequestEvents)).
		Where(entsql.EQ(colID, id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM event %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query LLM event %d: %w", id, err)
		}
		return nil, nil
	}

	var detail LLMEventDetail
	if err := scanSummary(&rows, &detail.LLMEventSummary, []any{&detail.RequestBody, &detail.ResponseBody}); err != nil {
		return nil, fmt.Errorf("scan LLM event %d: %w", id, err)
	}
	return &detail, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			colPurpose,
			entsql.Count("*"),
			entsql.Sum(colSuccess),
			entsql.Sum(colInputTokens),
			entsql.Sum(colOutputTokens),
			entsql.Avg(colLatencyMs),
		).
		From(entsql.Table(tableLLMRequestEvents)).
		GroupBy(colPurpose).
		OrderBy(colPurpose).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM usage by purpose: %w", err)
	}
	defer rows.Close()

	var stats []LLMUsageStats
	for rows.Next() {
		var s LLMUsageStats
		var succeeded int
		if err := rows.Scan(&s.Purpose, &s.Requests, &succeeded, &s.InputTokens, &s.OutputTokens, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		s.Failures = s.Requests - succeeded
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM usage: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			colModel,
			entsql.Count("*"),
			entsql.Sum(colInputTokens),
			entsql.Sum(colOutputTokens),
		).
		From(entsql.Table(tableLLMRequestEvents)).
		GroupBy(colModel).
		OrderBy(colModel).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM usage by model: %w", err)
	}
	defer rows.Close()

	var usage []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan LLM model usage: %w", err)
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM model usage: %w", err)
	}
	return usage, nil
}

// scanSummary reads summaryColumns, followed by extra destinations, into rec.
func scanSummary(rows *entsql.Rows, rec *LLMEventSummary, extra []any) error {
	var ts int64
	var success int
	dest := []any{
		&rec.ID, &rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &success, &rec.ErrorMessage,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	rec.Timestamp = time.UnixMilli(ts)
	rec.Success = success != 0
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
