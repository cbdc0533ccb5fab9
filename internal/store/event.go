package store

import (
	"context"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableEventSequence = "event_sequence"
	colNextVal         = "next_val"
)

// sequenceCounter stamps every logged request with a number that keeps
// growing across restarts, so `llm list` order is stable even when
// timestamps collide.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newSequenceCounter seeds the single counter row if it is missing.
// The table itself is created by migrate.
func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableEventSequence).
		Columns(colID, colNextVal).
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next returns the current value and bumps the stored counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	seq, err := bumpSequence(ctx, tx)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

func bumpSequence(ctx context.Context, tx dialect.Tx) (int64, error) {
	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Select(colNextVal).
		From(entsql.Table(tableEventSequence)).
		Where(entsql.EQ(colID, 1)).
		Query()
	var rows entsql.Rows
	if err := tx.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	var seq int64
	if !rows.Next() {
		rows.Close()
		return 0, fmt.Errorf("%s row missing", tableEventSequence)
	}
	if err := rows.Scan(&seq); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	query, args = b.Update(tableEventSequence).
		Set(colNextVal, seq+1).
		Where(entsql.EQ(colID, 1)).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		return 0, err
	}
	return seq, nil
}
