package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"relinker/internal/adapters/tui"
	"relinker/internal/bootstrap"
	"relinker/internal/config"
	"relinker/internal/logging"
)

func main() {
	envFile := flag.String("env-file", "", "load settings from this file instead of ./.env")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	// Logging to the terminal would corrupt the alternate screen
	logger := zap.NewNop()
	if cfg.LogFile != "" {
		if logger, err = logging.New(cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}
	}

	env, err := bootstrap.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Fprintf(os.Stderr, "Indexing %s...\n", env.Index.ProjectPath())
	if err := env.Sync(); err != nil {
		return err
	}

	app := tui.NewApp(context.Background(), env.Runner)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Leave the outcome in the scrollback once the alternate screen is gone
	if app.Result != nil {
		fmt.Println(app.Result.Message)
	}
	if err := app.Err(); err != nil {
		failureLogger(cfg, logger).Error("relink failed", zap.Error(err))
		return err
	}
	return nil
}

// failureLogger returns the configured logger, or a stderr logger once the
// alternate screen is gone when no log file is set
func failureLogger(cfg *config.Config, logger *zap.Logger) *zap.Logger {
	if cfg.LogFile != "" {
		return logger
	}
	stderr, err := logging.New(cfg.LogLevel, "")
	if err != nil {
		return logger
	}
	return stderr
}
