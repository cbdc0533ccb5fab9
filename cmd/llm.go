package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM request log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent plan and tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listQueryOpts(cmd, time.Now())
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one logged call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeEventDetail(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		writeUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func addListFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.IntP("limit", "n", 20, "Number of events to show")
	flags.StringP("purpose", "p", "", "Filter by purpose (plan or tutor)")
	flags.Int64("after", 0, "Only events with a sequence number above this")
	flags.Int64("before", 0, "Only events with a sequence number below this")
	flags.String("since", "", "Only events at or after this time (24h, 2006-01-02 or RFC 3339)")
	flags.String("until", "", "Only events at or before this time (24h, 2006-01-02 or RFC 3339)")
}

// listQueryOpts reads the list filters. --since and --until take either a
// duration back from now ("24h") or a date ("2006-01-02" or RFC 3339).
func listQueryOpts(cmd *cobra.Command, now time.Time) (store.QueryOpts, error) {
	flags := cmd.Flags()
	opts := store.QueryOpts{}
	opts.Limit, _ = flags.GetInt("limit")
	opts.Purpose, _ = flags.GetString("purpose")
	opts.After, _ = flags.GetInt64("after")
	opts.Before, _ = flags.GetInt64("before")

	var err error
	since, _ := flags.GetString("since")
	if opts.From, err = parseTimeFlag(since, now); err != nil {
		return opts, fmt.Errorf("--since: %w", err)
	}
	until, _ := flags.GetString("until")
	if opts.To, err = parseTimeFlag(until, now); err != nil {
		return opts, fmt.Errorf("--until: %w", err)
	}
	if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
		return opts, fmt.Errorf("--until is before --since")
	}
	return opts, nil
}

func parseTimeFlag(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want a duration like 24h or a date like 2006-01-02", v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...)
}

func writeEventList(w io.Writer, events []store.LLMEventSummary) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM requests logged yet.")
		return
	}

	t := newTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func writeEventDetail(w io.Writer, e *store.LLMEventDetail) {
	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	sep := strings.Repeat("─", 60)
	for _, part := range []struct{ name, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", sep, part.name, sep, body)
	}
}

func writeUsage(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	var calls, failed, in, out int
	usage := newTable("Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	for _, st := range byPurpose {
		usage.Row(st.Purpose,
			strconv.Itoa(st.Requests),
			strconv.Itoa(st.Failures),
			strconv.Itoa(st.InputTokens),
			strconv.Itoa(st.OutputTokens),
			strconv.Itoa(st.InputTokens+st.OutputTokens),
			fmt.Sprintf("%.0f", st.AvgLatencyMs),
		)
		calls += st.Requests
		failed += st.Failures
		in += st.InputTokens
		out += st.OutputTokens
	}
	usage.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(failed),
		strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")

	fmt.Fprintln(w, "Usage by purpose")
	fmt.Fprintln(w, usage.Render())

	if len(byModel) == 0 {
		return
	}

	var (
		total   float64
		unknown []string
	)
	cost := newTable("Model", "Calls", "Input", "Output", "Cost")
	for _, mu := range byModel {
		price := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			price = formatCost(usd)
		} else {
			unknown = append(unknown, mu.Model)
		}
		cost.Row(truncate(mu.Model, 32),
			strconv.Itoa(mu.Requests),
			strconv.Itoa(mu.InputTokens),
			strconv.Itoa(mu.OutputTokens),
			price,
		)
	}
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	cost.Row(label, "", "", "", formatCost(total))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, cost.Render())
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	addListFlags(llmListCmd)

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
