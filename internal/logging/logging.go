// Package logging builds the application's file logger. The terminal is
// owned by the TUI, so nothing is ever written to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	// File is the log file path. Empty uses DefaultLogPath.
	File string

	// Level is one of debug, info, warn, error, or off.
	Level string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int
}

// DefaultLogPath resolves the log file path:
// $XDG_STATE_HOME/studyforge/studyforge.log, falling back to
// ~/.local/state/studyforge/studyforge.log.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "studyforge", "studyforge.log"), nil
}

// New returns a JSON logger writing through a rotating file. The returned
// func flushes and closes the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	if strings.EqualFold(opts.Level, "off") {
		return zap.NewNop(), func() error { return nil }, nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}

	path := opts.File
	if path == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := opts.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     30,
		Compress:   true,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closer := func() error {
		_ = logger.Sync()
		return rotator.Close()
	}
	return logger, closer, nil
}
