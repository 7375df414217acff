package project

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProjectDirEnv_EmptyEnv(t *testing.T) {
	t.Setenv(ProjectDirEnv, "")

	path, found := checkProjectDirEnv(afero.NewOsFs())

	assert.False(t, found)
	assert.Empty(t, path)
}

func TestCheckProjectDirEnv_ValidDirectory(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv(ProjectDirEnv, tempDir)

	path, found := checkProjectDirEnv(afero.NewOsFs())

	assert.True(t, found)
	assert.Contains(t, path, tempDir)
}

func TestCheckProjectDirEnv_NonexistentDirectory(t *testing.T) {
	t.Setenv(ProjectDirEnv, "/nonexistent/path/that/does/not/exist")

	path, found := checkProjectDirEnv(afero.NewOsFs())

	assert.False(t, found)
	assert.Empty(t, path)
}

func TestFindRoot_UsesEnv(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv(ProjectDirEnv, tempDir)

	root, err := FindRoot(afero.NewOsFs())
	require.NoError(t, err)
	assert.Equal(t, tempDir, root)
}

func TestFindProjectMarkerFrom(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/app/pubspec.yaml", []byte("name: app\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/work/app/lib/src", 0o755))

	root, found := FindProjectMarkerFrom(fs, "/work/app/lib/src")
	assert.True(t, found)
	assert.Equal(t, filepath.Clean("/work/app"), root)

	_, found = FindProjectMarkerFrom(fs, "/elsewhere")
	assert.False(t, found)
}

func TestHasProjectMarker(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/pubspec.yaml", []byte("name: app\n"), 0o644))

	assert.True(t, hasProjectMarker(fs, "/app", []string{"pubspec.yaml"}))
	assert.False(t, hasProjectMarker(fs, "/app", []string{"go.mod"}))
}
