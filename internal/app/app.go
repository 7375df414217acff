// Package app wires configuration, generation, locking, history and
// notifications into the operations the CLI exposes.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/config"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"github.com/wizzomafizzo/assetgen/internal/database"
	"github.com/wizzomafizzo/assetgen/internal/generator"
	"github.com/wizzomafizzo/assetgen/internal/logging"
	"github.com/wizzomafizzo/assetgen/internal/notify"
	"github.com/wizzomafizzo/assetgen/internal/project"
	"github.com/wizzomafizzo/assetgen/internal/storage"
)

// ErrNotFlutterProject is returned when the project predicate rejects the root.
var ErrNotFlutterProject = errors.New("not a Flutter project")

const lockRetryDelay = 100 * time.Millisecond

// AppOptions contains configuration options for creating an App
type AppOptions struct {
	Fs       afero.Fs
	Storage  *storage.Manager
	Notifier notify.Notifier
	Detector project.Detector
	// ConfigPath is resolved against ProjectRoot when relative.
	ConfigPath  string
	ProjectRoot string
	// DisableHistory skips recording runs in the history database.
	DisableHistory bool
}

// App runs assetgen operations for one project.
type App struct {
	fs             afero.Fs
	storage        *storage.Manager
	notifier       notify.Notifier
	detector       project.Detector
	generator      *generator.Generator
	configPath     string
	projectRoot    string
	disableHistory bool
}

// NewApp creates an App, filling unset options with production defaults.
func NewApp(opts AppOptions) *App {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	store := opts.Storage
	if store == nil {
		store = storage.New(afero.NewOsFs())
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	detector := opts.Detector
	if detector == nil {
		detector = project.FlutterDetector(fs)
	}

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = constants.ConfigFilename
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(projectRoot, configPath)
	}

	return &App{
		fs:             fs,
		storage:        store,
		notifier:       notifier,
		detector:       detector,
		generator:      generator.New(fs),
		configPath:     configPath,
		projectRoot:    projectRoot,
		disableHistory: opts.DisableHistory,
	}
}

// ProjectRoot returns the root the app operates on.
func (a *App) ProjectRoot() string {
	return a.projectRoot
}

// ConfigPath returns the resolved standalone config path.
func (a *App) ConfigPath() string {
	return a.configPath
}

// LoadConfig resolves the layered config. A missing pubspec is tolerated;
// a malformed one is a configuration error.
func (a *App) LoadConfig() (*config.Config, *project.Pubspec, error) {
	pubspec, err := project.ReadPubspec(a.fs, a.projectRoot)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, &generator.ConfigurationError{Field: constants.PubspecFilename, Reason: "unreadable", Err: err}
		}
		pubspec = nil
	}

	cfg, err := config.LoadLayered(a.fs, a.configPath, pubspec)
	if err != nil {
		return nil, nil, &generator.ConfigurationError{Field: "config", Reason: a.configPath, Err: err}
	}
	return cfg, pubspec, nil
}

// GeneratorOptions resolves the generator options for the current config.
func (a *App) GeneratorOptions() (*config.Config, generator.Options, error) {
	cfg, pubspec, err := a.LoadConfig()
	if err != nil {
		return nil, generator.Options{}, err
	}
	var packageName string
	if pubspec != nil {
		packageName = pubspec.Name
	}
	return cfg, cfg.Options(a.projectRoot, packageName), nil
}

// Generate runs one generation for the project. It notifies the user of the
// outcome and returns ErrNotFlutterProject when the project is skipped.
func (a *App) Generate(ctx context.Context) (*generator.Result, error) {
	logger := logging.Get(ctx)

	if !a.detector(a.projectRoot) {
		a.notifier.Warn(fmt.Sprintf("%s is not a Flutter project, skipped", a.projectRoot))
		return nil, ErrNotFlutterProject
	}

	_, opts, err := a.GeneratorOptions()
	if err != nil {
		a.notifier.Error(err.Error())
		return nil, err
	}

	unlock, err := a.lock(ctx, opts.OutputPath)
	if err != nil {
		a.notifier.Error(err.Error())
		return nil, err
	}
	defer unlock()

	result, err := a.generator.Generate(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Str("asset_root", opts.AssetRoot).Msg("generation failed")
		a.notifier.Error(err.Error())
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	a.record(ctx, result)

	if result.Changed {
		msg := fmt.Sprintf("generate succeed: %d constants written to %s",
			len(result.Constants), a.relative(result.OutputPath))
		if breakdown := result.Breakdown(); breakdown != "" {
			msg += " (" + breakdown + ")"
		}
		a.notifier.Info(msg)
	} else {
		a.notifier.Info("nothing changed")
	}
	return result, nil
}

// Check plans a generation without writing and reports whether the output
// is stale.
func (a *App) Check(ctx context.Context) (*generator.Result, error) {
	_, opts, err := a.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	result, err := a.generator.Plan(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("plan failed: %w", err)
	}
	return result, nil
}

// lock takes the cross-process lock guarding outputPath.
func (a *App) lock(ctx context.Context, outputPath string) (func(), error) {
	lockPath, err := a.storage.GetLockPath(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock: %w", err)
	}

	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", outputPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock %s", outputPath)
	}

	logging.Get(ctx).Debug().Str("lock", lockPath).Msg("acquired output lock")
	return func() { _ = fileLock.Unlock() }, nil
}

// record stores a history entry. Failures are logged, never returned.
func (a *App) record(ctx context.Context, result *generator.Result) {
	if a.disableHistory {
		return
	}
	logger := logging.Get(ctx)

	db, err := a.openHistory(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer func() { _ = db.Close() }()

	sum := sha256.Sum256(result.Content)
	_, err = db.Record(ctx, database.HistoryEntry{
		ProjectRoot:   a.absRoot(),
		OutputPath:    result.OutputPath,
		Constants:     len(result.Constants),
		Changed:       result.Changed,
		ContentSHA256: hex.EncodeToString(sum[:]),
		Duration:      result.Duration,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record history")
	}
}

// History returns recent runs for this project, newest first.
func (a *App) History(ctx context.Context, limit int, allProjects bool) ([]database.HistoryEntry, error) {
	db, err := a.openHistory(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	root := a.absRoot()
	if allProjects {
		root = ""
	}
	entries, err := db.Recent(ctx, root, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// PruneHistory deletes history entries older than olderThan across every
// project and returns how many were removed.
func (a *App) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, &generator.ConfigurationError{
			Field:  "prune",
			Reason: fmt.Sprintf("age %s must be positive", olderThan),
		}
	}
	db, err := a.openHistory(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	removed, err := db.Prune(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	logging.Get(ctx).Info().Int64("removed", removed).Dur("older_than", olderThan).Msg("pruned history")
	return removed, nil
}

func (a *App) openHistory(ctx context.Context) (*database.Manager, error) {
	path, err := a.storage.GetHistoryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history path: %w", err)
	}
	db, err := database.NewManager(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return db, nil
}

func (a *App) absRoot() string {
	abs, err := filepath.Abs(a.projectRoot)
	if err != nil {
		return a.projectRoot
	}
	return abs
}

func (a *App) relative(path string) string {
	rel, err := filepath.Rel(a.projectRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
