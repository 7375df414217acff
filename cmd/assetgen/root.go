package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/assetgen/internal/app"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"github.com/wizzomafizzo/assetgen/internal/logging"
	"github.com/wizzomafizzo/assetgen/internal/notify"
	"github.com/wizzomafizzo/assetgen/internal/project"
	"github.com/wizzomafizzo/assetgen/internal/storage"
)

// createNewRootCommand creates the main root command that shows help by default.
func createNewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Generate Dart asset references for Flutter projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", constants.ConfigFilename, "Path to config file")
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project root (default: nearest pubspec.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		createGenerateCommand(),
		createWatchCommand(),
		createInitCommand(),
		createValidateCommand(),
		createStatusCommand(),
		createHistoryCommand(),
	)

	return rootCmd
}

// createAppFromCommand resolves the project from the command flags and
// returns an app plus a context carrying its logger.
func createAppFromCommand(cmd *cobra.Command) (context.Context, *app.App, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	projectDir, err := cmd.Flags().GetString("project")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get project flag: %w", err)
	}
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	fs := afero.NewOsFs()
	projectRoot, err := resolveProjectRoot(fs, projectDir)
	if err != nil {
		return nil, nil, err
	}

	store := dataStorage(fs)
	cliApp := app.NewApp(app.AppOptions{
		Fs:          fs,
		Storage:     store,
		Notifier:    notify.NewTerminal(cmd.ErrOrStderr(), constants.AppName),
		ConfigPath:  configPath,
		ProjectRoot: projectRoot,
	})

	if levelName == "" {
		if cfg, _, cfgErr := cliApp.LoadConfig(); cfgErr == nil {
			levelName = cfg.LogLevel
		}
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	logPath, err := store.GetLogPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve log path: %w", err)
	}
	ctx, err := logging.New(commandContext(cmd), fs, logging.Config{
		LogPath:     logPath,
		ProjectRoot: projectRoot,
		Level:       level,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return ctx, cliApp, nil
}

func resolveProjectRoot(fs afero.Fs, projectDir string) (string, error) {
	if projectDir == "" {
		root, err := project.FindRoot(fs)
		if err != nil {
			return "", fmt.Errorf("failed to find project root: %w", err)
		}
		return root, nil
	}

	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project %s: %w", projectDir, err)
	}
	if ok, _ := afero.DirExists(fs, abs); !ok {
		return "", fmt.Errorf("project directory %s does not exist", abs)
	}
	return abs, nil
}

// dataStorage honors ASSETGEN_DATA_DIR before falling back to XDG.
func dataStorage(fs afero.Fs) *storage.Manager {
	if dir := os.Getenv(constants.DataDirEnv); dir != "" {
		return storage.NewAt(fs, dir)
	}
	return storage.New(fs)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
