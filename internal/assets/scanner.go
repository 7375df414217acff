// Package assets discovers asset files beneath an asset root.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/logging"
)

// MediaType classifies an asset by extension or content.
type MediaType string

const (
	MediaImage     MediaType = "image"
	MediaSVG       MediaType = "svg"
	MediaLottie    MediaType = "lottie"
	MediaUnknown   MediaType = "unknown"
	MediaDirectory MediaType = "directory"
)

const (
	lottieSniffBytes   = 200
	lottieMaxFileBytes = 5 * 1024 * 1024
)

var (
	imageExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "webp": true,
		"gif": true, "bmp": true, "wbmp": true, "ico": true,
	}

	// Flutter resolves 2.0x/3.0x variants itself, so they never get their own constant.
	resolutionDirPattern = regexp.MustCompile(`^\d+(\.\d+)?x$`)
)

// Entry is one discovered file or directory, relative to the asset root.
type Entry struct {
	RelPath string
	Name    string
	Dir     string
	Type    MediaType
	IsDir   bool
}

// BaseName returns the entry name without its final extension.
func (e Entry) BaseName() string {
	if e.IsDir {
		return e.Name
	}
	ext := path.Ext(e.Name)
	if ext == e.Name {
		return e.Name
	}
	return strings.TrimSuffix(e.Name, ext)
}

// ParentName returns the name of the immediate parent directory, or "" at the root.
func (e Entry) ParentName() string {
	if e.Dir == "" {
		return ""
	}
	return path.Base(e.Dir)
}

// Scanner walks an asset root with a filtering policy.
type Scanner struct {
	fs       afero.Fs
	excluded map[string]bool
	ignore   []string
}

// NewScanner creates a scanner. Ignore patterns are doublestar globs matched
// against both the slash-separated relative path and the bare name.
func NewScanner(fs afero.Fs, ignore []string) *Scanner {
	return &Scanner{fs: fs, ignore: ignore, excluded: make(map[string]bool)}
}

// Exclude skips the given full paths, e.g. a generated file that lives
// inside the asset root.
func (s *Scanner) Exclude(paths ...string) *Scanner {
	for _, p := range paths {
		s.excluded[filepath.Clean(p)] = true
	}
	return s
}

// ValidatePatterns reports the first malformed ignore pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	return nil
}

// Scan returns every non-ignored file under root sorted by relative path.
// When includeDirs is set, directories that hold at least one file are
// returned as entries too.
func (s *Scanner) Scan(ctx context.Context, root string, includeDirs bool) ([]Entry, error) {
	logger := logging.Get(ctx)

	var files []Entry
	populated := make(map[string]bool)

	err := afero.Walk(s.fs, root, func(fullPath string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, fullPath)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", fullPath, err)
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if s.excluded[filepath.Clean(fullPath)] {
			return nil
		}

		if reason := s.skipReason(rel, info); reason != "" {
			logger.Debug().Str("path", rel).Str("reason", reason).Msg("skipping asset")
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		entry := Entry{
			RelPath: rel,
			Name:    info.Name(),
			Dir:     parentDir(rel),
		}
		entry.Type = s.mediaType(fullPath, info)
		files = append(files, entry)

		for dir := entry.Dir; dir != ""; dir = parentDir(dir) {
			populated[dir] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	entries := files
	if includeDirs {
		for dir := range populated {
			entries = append(entries, Entry{
				RelPath: dir,
				Name:    path.Base(dir),
				Dir:     parentDir(dir),
				Type:    MediaDirectory,
				IsDir:   true,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})

	logger.Debug().
		Str("root", root).
		Int("files", len(files)).
		Int("entries", len(entries)).
		Msg("asset scan complete")

	return entries, nil
}

func (s *Scanner) skipReason(rel string, info os.FileInfo) string {
	name := info.Name()
	if strings.HasPrefix(name, ".") {
		return "hidden"
	}
	if info.IsDir() && resolutionDirPattern.MatchString(name) {
		return "resolution variant"
	}
	for _, pattern := range s.ignore {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return "ignored by " + pattern
		}
		if matched, _ := doublestar.Match(pattern, name); matched {
			return "ignored by " + pattern
		}
	}
	return ""
}

func (s *Scanner) mediaType(fullPath string, info os.FileInfo) MediaType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(info.Name()), "."))
	switch {
	case imageExtensions[ext]:
		return MediaImage
	case ext == "svg":
		return MediaSVG
	case ext == "lottie":
		return MediaLottie
	case ext == "json" && s.isLottie(fullPath, info.Size()):
		return MediaLottie
	default:
		return MediaUnknown
	}
}

// isLottie sniffs the head of a JSON file for the Lottie version and layer keys.
func (s *Scanner) isLottie(fullPath string, size int64) bool {
	if size > lottieMaxFileBytes {
		return false
	}
	f, err := s.fs.Open(fullPath)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, lottieSniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	head = head[:n]
	return bytes.Contains(head, []byte(`"v"`)) &&
		(bytes.Contains(head, []byte(`"layers"`)) || bytes.Contains(head, []byte(`"ip"`)))
}

func parentDir(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return dir
}
