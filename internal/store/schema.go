package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions in the form ent's migrator consumes. Column names are
// shared with the query code in llm_event.go and event.go.
var (
	llmRequestEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colProvider, Type: field.TypeString, Default: ""},
		{Name: colModel, Type: field.TypeString, Default: ""},
		{Name: colPurpose, Type: field.TypeString, Default: ""},
		{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colSuccess, Type: field.TypeInt, Default: 0},
		{Name: colErrorMessage, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colRequestBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       tableLLMRequestEvents,
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose_timestamp",
				Unique:  false,
				Columns: []*schema.Column{llmRequestEventsColumns[5], llmRequestEventsColumns[2]},
			},
		},
	}

	eventSequenceColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colNextVal, Type: field.TypeInt64, Default: 1},
	}
	eventSequenceTable = &schema.Table{
		Name:       tableEventSequence,
		Columns:    eventSequenceColumns,
		PrimaryKey: []*schema.Column{eventSequenceColumns[0]},
	}

	tables = []*schema.Table{llmRequestEventsTable, eventSequenceTable}
)

// migrate creates missing tables and columns. It never drops anything.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
