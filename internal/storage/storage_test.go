package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/assetgen/internal/constants"
)

func TestStorageManagerPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		methodCall   func(*Manager) (string, error)
		expectedPath func() string
		name         string
	}{
		{
			name: "GetDataDir returns correct path",
			methodCall: func(m *Manager) (string, error) {
				return m.GetDataDir()
			},
			expectedPath: func() string {
				return filepath.Join(xdg.DataHome, AppName)
			},
		},
		{
			name: "GetLogPath returns correct path",
			methodCall: func(m *Manager) (string, error) {
				return m.GetLogPath()
			},
			expectedPath: func() string {
				return filepath.Join(xdg.DataHome, AppName, constants.LogFilename)
			},
		},
		{
			name: "GetHistoryPath returns correct path",
			methodCall: func(m *Manager) (string, error) {
				return m.GetHistoryPath()
			},
			expectedPath: func() string {
				return filepath.Join(xdg.DataHome, AppName, constants.HistoryFilename)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager := New(afero.NewMemMapFs())

			actualPath, err := tt.methodCall(manager)
			if err != nil {
				t.Fatalf("method call failed: %v", err)
			}

			expectedPath := tt.expectedPath()
			if actualPath != expectedPath {
				t.Errorf("got %s, want %s", actualPath, expectedPath)
			}
		})
	}
}

func TestGetDataDirCreatesDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	dataDir, err := New(fs).GetDataDir()
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, dataDir)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetLockPath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	manager := New(fs)

	first, err := manager.GetLockPath("/project/lib/generated/assets.dart")
	require.NoError(t, err)
	again, err := manager.GetLockPath("/project/lib/generated/assets.dart")
	require.NoError(t, err)
	other, err := manager.GetLockPath("/other/lib/generated/assets.dart")
	require.NoError(t, err)

	assert.Equal(t, first, again, "same output should map to same lock")
	assert.NotEqual(t, first, other, "different outputs should not share a lock")
	assert.True(t, strings.HasSuffix(first, ".lock"))
	assert.Equal(t, filepath.Join(xdg.DataHome, AppName, constants.LocksDir), filepath.Dir(first))

	exists, err := afero.DirExists(fs, filepath.Dir(first))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetDataDirReadOnlyFs(t *testing.T) {
	t.Parallel()

	manager := New(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := manager.GetDataDir()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create data directory")
}

func TestNewAtOverridesDataDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := NewAt(fs, "/custom/data")

	dataDir, err := m.GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/data", dataDir)

	historyPath, err := m.GetHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/data", constants.HistoryFilename), historyPath)

	lockPath, err := m.GetLockPath("/work/app/lib/generated/assets.dart")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/data", constants.LocksDir), filepath.Dir(lockPath))

	exists, err := afero.DirExists(fs, filepath.Join("/custom/data", constants.LocksDir))
	require.NoError(t, err)
	assert.True(t, exists)
}
