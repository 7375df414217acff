// Package generator turns an asset tree into a generated Dart reference file.
//
// A run scans the asset root, derives unique identifiers, renders the source
// and atomically replaces the output file. Nothing is cached between runs.
// Callers must serialize runs that target the same output path.
package generator

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/assets"
	"github.com/wizzomafizzo/assetgen/internal/codegen"
	"github.com/wizzomafizzo/assetgen/internal/logging"
	"github.com/wizzomafizzo/assetgen/internal/naming"
)

// Options is the complete input of a generation run.
type Options struct {
	AssetRoot  string
	OutputPath string
	ClassName  string
	// PathPrefix is prepended to every constant value, e.g. "assets/".
	PathPrefix         string
	Ignore             []string
	NamedWithParent    bool
	IncludeDirectories bool
}

// Result describes a completed run.
type Result struct {
	OutputPath string
	Content    []byte
	Constants  []naming.Constant
	Duration   time.Duration
	// Changed is false when the output already held identical content.
	Changed bool
}

// Counts tallies constants by media type.
func (r *Result) Counts() map[assets.MediaType]int {
	counts := make(map[assets.MediaType]int)
	for _, c := range r.Constants {
		counts[c.Entry.Type]++
	}
	return counts
}

var breakdownOrder = []assets.MediaType{
	assets.MediaImage, assets.MediaSVG, assets.MediaLottie,
	assets.MediaDirectory, assets.MediaUnknown,
}

// Breakdown renders Counts as "2 image, 1 svg", skipping absent types.
func (r *Result) Breakdown() string {
	counts := r.Counts()
	parts := make([]string, 0, len(breakdownOrder))
	for _, t := range breakdownOrder {
		if n := counts[t]; n > 0 {
			parts = append(parts, strconv.Itoa(n)+" "+string(t))
		}
	}
	return strings.Join(parts, ", ")
}

// Generator runs generations against a filesystem.
type Generator struct {
	fs afero.Fs
}

// New creates a Generator backed by fs.
func New(fs afero.Fs) *Generator {
	return &Generator{fs: fs}
}

// Validate checks opts without touching the output.
func (g *Generator) Validate(opts Options) error {
	if !naming.IsValidIdentifier(opts.ClassName) {
		return &ConfigurationError{Field: "class_name", Reason: "not a valid identifier: " + strconv.Quote(opts.ClassName)}
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return &ConfigurationError{Field: "output", Reason: "output path is empty"}
	}
	if err := assets.ValidatePatterns(opts.Ignore); err != nil {
		return &ConfigurationError{Field: "ignore", Reason: "malformed pattern", Err: err}
	}
	if strings.TrimSpace(opts.AssetRoot) == "" {
		return &ConfigurationError{Field: "asset_root", Reason: "asset root not found"}
	}

	ok, err := isDir(g.fs, opts.AssetRoot)
	if err != nil {
		return &IOError{Op: "stat", Path: opts.AssetRoot, Err: err}
	}
	if !ok {
		return &ConfigurationError{Field: "asset_root", Reason: "asset root not found: " + opts.AssetRoot}
	}

	if outIsDir, err := isDir(g.fs, opts.OutputPath); err == nil && outIsDir {
		return &ConfigurationError{Field: "output", Reason: "output path is a directory: " + opts.OutputPath}
	}
	return nil
}

// Generate performs one full run. On error the previous output, if any, is
// left untouched.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.Get(ctx)
	start := time.Now()

	result, err := g.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	if result.Changed {
		if err := writeAtomic(g.fs, opts.OutputPath, result.Content); err != nil {
			return nil, err
		}
	} else {
		logger.Debug().Str("output", opts.OutputPath).Msg("output unchanged, skipping write")
	}

	result.Duration = time.Since(start)
	logger.Debug().
		Str("asset_root", opts.AssetRoot).
		Str("output", filepath.ToSlash(opts.OutputPath)).
		Int("constants", len(result.Constants)).
		Bool("changed", result.Changed).
		Dur("duration", result.Duration).
		Msg("generation complete")

	return result, nil
}

// Plan renders the output without writing it. Changed reports whether a
// Generate with the same options would rewrite the file.
func (g *Generator) Plan(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if err := g.Validate(opts); err != nil {
		return nil, err
	}

	scanner := assets.NewScanner(g.fs, opts.Ignore).Exclude(opts.OutputPath)
	entries, err := scanner.Scan(ctx, opts.AssetRoot, opts.IncludeDirectories)
	if err != nil {
		return nil, &IOError{Op: "scan", Path: opts.AssetRoot, Err: err}
	}

	constants, err := naming.Resolve(entries, naming.Options{
		NamedWithParent: opts.NamedWithParent,
		Reserved:        []string{opts.ClassName},
	})
	if err != nil {
		if errors.Is(err, naming.ErrCollisionPolicyExhausted) {
			return nil, &ConfigurationError{Field: "assets", Reason: "rename colliding files", Err: err}
		}
		return nil, err
	}

	content, err := codegen.RenderDart(codegen.File{
		ClassName:  opts.ClassName,
		PathPrefix: opts.PathPrefix,
		Constants:  constants,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		OutputPath: opts.OutputPath,
		Content:    content,
		Constants:  constants,
		Changed:    !sameContent(g.fs, opts.OutputPath, content),
		Duration:   time.Since(start),
	}, nil
}
