package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/app"
	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/store"
	"github.com/abhisek/studyforge/internal/studyplan"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync() //nolint:errcheck

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), st.EventRepo(), logger)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("LLM provider: %w", err)
		}
		logger.Warn("llm provider not configured", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Plan generation and the tutor will be unavailable.")
	}

	svc := studyplan.New(provider, cfg.PlanConfig(), logger)
	return app.Run(app.Options{Service: svc, Logger: logger})
}
