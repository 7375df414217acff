package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/config"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"github.com/wizzomafizzo/assetgen/internal/generator"
	"github.com/wizzomafizzo/assetgen/internal/logging"
	"github.com/wizzomafizzo/assetgen/internal/watch"
)

// ErrConfigExists is returned by Init when the config file is already present.
var ErrConfigExists = errors.New("config file already exists")

// ValidateConfig loads the layered config and checks the resulting generator
// options without touching the output.
func (a *App) ValidateConfig() (string, error) {
	_, opts, err := a.GeneratorOptions()
	if err != nil {
		return "", err
	}
	if err := a.generator.Validate(opts); err != nil {
		return "", err
	}
	return "Configuration is valid\n", nil
}

// Status describes the resolved configuration and the state of the output.
func (a *App) Status(ctx context.Context) (string, error) {
	cfg, opts, err := a.GeneratorOptions()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	flutter := "no"
	if a.detector(a.projectRoot) {
		flutter = "yes"
	}
	configState := "not found (using defaults and pubspec)"
	if ok, _ := afero.Exists(a.fs, a.configPath); ok {
		configState = a.configPath
	}

	row := func(label string, value any) {
		fmt.Fprintf(&b, "%-19s %v\n", label+":", value)
	}
	row("Project root", a.projectRoot)
	row("Flutter project", flutter)
	row("Config file", configState)
	row("Asset root", opts.AssetRoot)
	row("Output", opts.OutputPath)
	row("Class name", opts.ClassName)
	row("Path prefix", fmt.Sprintf("%q", opts.PathPrefix))
	row("Named with parent", opts.NamedWithParent)
	row("Directories", opts.IncludeDirectories)
	row("Auto detection", cfg.AutoDetectionEnabled())

	result, err := a.generator.Plan(ctx, opts)
	switch {
	case err != nil:
		row("State", "error: "+err.Error())
	case result.Changed:
		row("State", fmt.Sprintf("stale (%d constants pending)", len(result.Constants)))
	default:
		row("State", fmt.Sprintf("up to date (%d constants)", len(result.Constants)))
	}
	if err == nil && len(result.Constants) > 0 {
		row("Media", result.Breakdown())
	}
	return b.String(), nil
}

// Init writes cfg to the standalone config path. Existing files are only
// replaced when force is set.
func (a *App) Init(cfg *config.Config, force bool) error {
	if err := cfg.Validate(); err != nil {
		return &generator.ConfigurationError{Field: "config", Reason: "refusing to write", Err: err}
	}

	exists, err := afero.Exists(a.fs, a.configPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", a.configPath, err)
	}
	if exists && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, a.configPath)
	}

	data, err := config.MarshalYAML(cfg)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(a.fs, a.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.configPath, err)
	}
	a.notifier.Info("wrote " + a.relative(a.configPath))
	return nil
}

// Watch regenerates once, then again after every settled change under the
// asset root or to the config file and pubspec, until ctx is cancelled.
// Config edits that move the asset root or output restart the watcher.
func (a *App) Watch(ctx context.Context) error {
	if !a.detector(a.projectRoot) {
		a.notifier.Warn(fmt.Sprintf("%s is not a Flutter project, skipped", a.projectRoot))
		return ErrNotFlutterProject
	}

	cfg, opts, err := a.GeneratorOptions()
	if err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	if !cfg.AutoDetectionEnabled() {
		a.notifier.Info("auto detection is disabled, not watching")
		return nil
	}

	if _, err := a.Generate(ctx); err != nil {
		return err
	}

	for {
		next, err := a.watchTree(ctx, cfg, opts)
		if err != nil || next == nil {
			return err
		}
		if !next.cfg.AutoDetectionEnabled() {
			a.notifier.Info("auto detection was disabled, stopped watching")
			return nil
		}
		cfg, opts = next.cfg, next.opts
	}
}

type watchTarget struct {
	cfg  *config.Config
	opts generator.Options
}

// watchTree runs one watcher over opts.AssetRoot. It returns the reloaded
// target when a config edit requires a new watcher, or nil once ctx ends.
func (a *App) watchTree(ctx context.Context, cfg *config.Config, opts generator.Options) (*watchTarget, error) {
	logger := logging.Get(ctx)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pubspecPath := filepath.Join(a.projectRoot, constants.PubspecFilename)
	isConfig := func(p string) bool {
		return p == filepath.Clean(a.configPath) || p == pubspecPath
	}

	var next *watchTarget
	w := watch.New(a.fs, opts.AssetRoot, cfg.DebounceWindow(), func(ctx context.Context, changed []string) {
		logger.Debug().Strs("changed", changed).Msg("regenerating after change")
		if _, err := a.Generate(ctx); err != nil {
			logger.Warn().Err(err).Msg("regeneration failed")
		}
		if !slices.ContainsFunc(changed, isConfig) {
			return
		}

		reloaded, reloadedOpts, err := a.GeneratorOptions()
		if err != nil {
			return
		}
		if reloadedOpts.AssetRoot != opts.AssetRoot || reloadedOpts.OutputPath != opts.OutputPath ||
			reloaded.DebounceWindow() != cfg.DebounceWindow() || !reloaded.AutoDetectionEnabled() {
			logger.Info().Str("asset_root", reloadedOpts.AssetRoot).Msg("config changed, restarting watcher")
			next = &watchTarget{cfg: reloaded, opts: reloadedOpts}
			cancel()
		}
	}).Exclude(opts.OutputPath).Files(a.configPath, pubspecPath)

	a.notifier.Info("watching " + a.relative(opts.AssetRoot))
	if err := w.Run(runCtx); err != nil {
		return nil, fmt.Errorf("watch failed: %w", err)
	}
	if ctx.Err() != nil {
		return nil, nil
	}
	return next, nil
}
