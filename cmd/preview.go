package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/session"
	"github.com/abhisek/studyforge/internal/studyplan"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a study plan from a notes file and print it (no database)",
	Long: `Generate a study plan from a notes file and print it.

This is a stateless developer tool: no database, no TUI.
Useful for evaluating plan quality and prompt changes.
Use --file - to read the notes from stdin.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("file", "f", "", "Notes file to plan from, or - for stdin (required)")
	previewCmd.Flags().Bool("json", false, "Print the raw plan JSON")
	_ = previewCmd.MarkFlagRequired("file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	notes, err := readNotes(cmd, file)
	if err != nil {
		return err
	}
	if n := utf8.RuneCountInString(notes); n < session.MinInputLength {
		return fmt.Errorf("notes too short: %d characters, need at least %d", n, session.MinInputLength)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	// No EventRepo: requests are not recorded.
	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), nil, logger)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	svc := studyplan.New(provider, cfg.PlanConfig(), logger)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating plan from %d characters (model %s)...\n\n", utf8.RuneCountInString(notes), provider.ModelID())

	plan, err := svc.GeneratePlan(ctx, notes)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	printPlan(out, plan)
	return nil
}

func readNotes(cmd *cobra.Command, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(data), nil
}

func printPlan(w io.Writer, plan *studyplan.StudyPlan) {
	fmt.Fprintf(w, "══ %s ══\n", plan.Title)

	for _, day := range plan.Days {
		fmt.Fprintf(w, "\n── %s ──\n", day.DayLabel)
		fmt.Fprintln(w, day.TopicSummary)

		s := day.Strategy
		fmt.Fprintf(w, "\nStrategy: %s\n  %s\n  Action: %s\n", s.MethodName, s.Description, s.ActionableStep)

		fmt.Fprintf(w, "\nFlashcards (%d):\n", len(day.Flashcards))
		for i, c := range day.Flashcards {
			fmt.Fprintf(w, "  %d. %s\n     → %s\n", i+1, c.Front, c.Back)
		}

		fmt.Fprintf(w, "\nQuiz (%d):\n", len(day.Quiz))
		for i, q := range day.Quiz {
			fmt.Fprintf(w, "  %d. %s\n", i+1, q.Question)
			for j, opt := range q.Options {
				mark := " "
				if q.IsCorrect(j) {
					mark = "*"
				}
				fmt.Fprintf(w, "     %s %c) %s\n", mark, 'A'+j, opt)
			}
			if q.Explanation != "" {
				fmt.Fprintf(w, "     %s\n", strings.TrimSpace(q.Explanation))
			}
		}
	}
}
