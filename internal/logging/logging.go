// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level. Output goes to file when set, otherwise to
// stderr so it never interleaves with command output or the MCP stream.
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel
	cfg.Sampling = nil

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("relinker"), nil
}

// ProgressLogger implements ports.ProgressObserver by logging. Scan and
// rewrite progress is logged every Every steps and on the last one.
type ProgressLogger struct {
	logger *zap.Logger
	Every  int
}

// NewProgressLogger creates a progress logger
func NewProgressLogger(logger *zap.Logger) *ProgressLogger {
	return &ProgressLogger{logger: logger, Every: 100}
}

func (p *ProgressLogger) due(done, total int) bool {
	return done == total || p.Every <= 1 || done%p.Every == 0
}

// Scanned logs dependency scan progress
func (p *ProgressLogger) Scanned(location string, done, total int) {
	if !p.due(done, total) {
		return
	}
	p.logger.Info("Finding GUID references",
		zap.String("asset", location),
		zap.Int("done", done),
		zap.Int("total", total))
}

// Rewriting logs rewrite progress
func (p *ProgressLogger) Rewriting(assetPath, dependent string, done, total int) {
	if !p.due(done, total) {
		return
	}
	p.logger.Info("Updating GUID references",
		zap.String("asset", assetPath),
		zap.String("dependent", dependent),
		zap.Int("done", done),
		zap.Int("total", total))
}

// PairDone logs a relinked asset
func (p *ProgressLogger) PairDone(assetPath string, substitutions int) {
	p.logger.Debug("relinked",
		zap.String("asset", assetPath),
		zap.Int("references", substitutions))
}
