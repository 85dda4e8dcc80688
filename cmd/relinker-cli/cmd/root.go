package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"relinker/internal/bootstrap"
	"relinker/internal/config"
	"relinker/internal/logging"
)

// Commands annotated with skipSync manage the index themselves
const annotationSkipSync = "skipSync"

var (
	envFile       string
	projectPath   string
	sourceGUID    string
	referenceGUID string
	logLevel      string

	env *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "relinker-cli",
	Short: "Relink asset GUIDs between two parallel folder trees",
	Long: `relinker-cli gives every asset of a source folder the GUID of the asset
at the same relative path in a reference folder, swapping the two
identifiers in their .meta files and rewriting every file that referenced
the old GUID.

Settings are read from a .env file and RELINKER_* environment variables;
flags override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "new-guid" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		env, err = bootstrap.Open(cfg, logger)
		if err != nil {
			return err
		}
		if cmd.Annotations[annotationSkipSync] != "" {
			return nil
		}
		return env.Sync()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeEnv()
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeEnv(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "project directory (default $"+config.EnvProjectPath+" or .)")
	rootCmd.PersistentFlags().StringVarP(&sourceGUID, "source", "s", "", "GUID of the source root folder")
	rootCmd.PersistentFlags().StringVarP(&referenceGUID, "reference", "r", "", "GUID of the reference root folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func loadConfig() (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}
	if sourceGUID != "" {
		cfg.SourceGUID = sourceGUID
	}
	if referenceGUID != "" {
		cfg.ReferenceGUID = referenceGUID
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func closeEnv() error {
	if env == nil {
		return nil
	}
	err := env.Close()
	env = nil
	return err
}
