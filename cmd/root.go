package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/config"
	"github.com/abhisek/studyforge/internal/logging"
	"github.com/abhisek/studyforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "AI study planner for the terminal",
	Long: `studyforge turns pasted study notes into a 4-day plan with flashcards,
quizzes and memory strategies, and lets you chat with an AI tutor about them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file (default $XDG_CONFIG_HOME/studyforge/config.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides STUDYFORGE_DB env var)")
	flags.String("log-file", "", "Path to the log file (default $XDG_STATE_HOME/studyforge/studyforge.log)")
	flags.String("log-level", "", "Log level: debug, info, warn, error or off")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and env vars, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

// newLogger opens the file logger described by cfg.
func newLogger(cfg *config.Config) (*zap.Logger, func() error, error) {
	logger, closeFn, err := logging.New(logging.Options{
		File:  cfg.Log.File,
		Level: cfg.Log.Level,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return logger, closeFn, nil
}

// resolveDBPath returns the database path using --db or the config value
// (highest priority), then STUDYFORGE_DB, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the request log database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
