// Package project locates Flutter project roots and reads their pubspec.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/constants"
)

// ProjectDirEnv overrides root discovery when set to an existing directory.
const ProjectDirEnv = "ASSETGEN_PROJECT_DIR"

// FindRoot finds the project root directory.
func FindRoot(fs afero.Fs) (string, error) {
	if root, found := checkProjectDirEnv(fs); found {
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	if root, found := findProjectMarker(fs, cwd); found {
		return root, nil
	}

	// Fall back to current working directory
	return cwd, nil
}

// FindProjectMarkerFrom finds the project root directory starting from the given directory.
func FindProjectMarkerFrom(fs afero.Fs, startDir string) (string, bool) {
	return findProjectMarker(fs, startDir)
}

// checkProjectDirEnv checks if ASSETGEN_PROJECT_DIR is set and valid
func checkProjectDirEnv(fs afero.Fs) (string, bool) {
	dir := os.Getenv(ProjectDirEnv)
	if dir == "" {
		return "", false
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	info, err := fs.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}

	return abs, true
}

// findProjectMarker walks up from startDir to the nearest pubspec.yaml
func findProjectMarker(fs afero.Fs, startDir string) (string, bool) {
	currentDir := startDir

	for {
		if hasProjectMarker(fs, currentDir, []string{constants.PubspecFilename}) {
			return currentDir, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}

		currentDir = parentDir
	}

	return "", false
}

// hasProjectMarker checks if any of the given markers exist in the directory
func hasProjectMarker(fs afero.Fs, dir string, markers []string) bool {
	for _, marker := range markers {
		if _, err := fs.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
