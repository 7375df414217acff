// Package storage provides XDG-compliant storage path management for assetgen.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/constants"
)

// AppName is the application name used for XDG directory paths
const AppName = constants.AppName

// Manager handles storage operations with filesystem abstraction
type Manager struct {
	fs      afero.Fs
	dataDir string
}

// New creates a new storage manager with the given filesystem
func New(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// NewAt creates a storage manager rooted at dataDir instead of the XDG location.
func NewAt(fs afero.Fs, dataDir string) *Manager {
	return &Manager{fs: fs, dataDir: dataDir}
}

// GetDataDir returns the XDG data directory for assetgen, creating it if necessary
func (m *Manager) GetDataDir() (string, error) {
	dataDir := m.dataDir
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, AppName)
	}
	err := m.fs.MkdirAll(dataDir, 0o750)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// GetLogPath returns the full path to the assetgen log file
func (m *Manager) GetLogPath() (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, constants.LogFilename), nil
}

// GetHistoryPath returns the full path to the generation history database
func (m *Manager) GetHistoryPath() (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, constants.HistoryFilename), nil
}

// GetLockPath returns the lock file guarding writes to outputPath.
// The name is derived from a hash of the absolute output path so two
// projects never share a lock.
func (m *Manager) GetLockPath(outputPath string) (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path %s: %w", outputPath, err)
	}
	sum := sha256.Sum256([]byte(abs))

	lockDir := filepath.Join(dataDir, constants.LocksDir)
	if err := m.fs.MkdirAll(lockDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create lock directory %s: %w", lockDir, err)
	}
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"), nil
}
