package assets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testutil "github.com/wizzomafizzo/assetgen/internal/testing"
)

const lottieJSON = `{"v":"5.7.4","fr":30,"ip":0,"op":60,"w":100,"h":100,"layers":[]}`

func relPaths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelPath)
	}
	return out
}

func TestScan_SortedAndFiltered(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"icons/settings.png":  "x",
		"icons/home.png":      "x",
		"icons/sub/home.png":  "x",
		"icons/.DS_Store":     "x",
		".hidden/secret.png":  "x",
		"icons/2.0x/home.png": "x",
		"icons/3x/home.png":   "x",
		"Zebra.png":           "x",
		"apple.png":           "x",
	})

	entries, err := NewScanner(fs, nil).Scan(ctx, "/p/assets", false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Zebra.png",
		"apple.png",
		"icons/home.png",
		"icons/settings.png",
		"icons/sub/home.png",
	}, relPaths(entries))
}

func TestScan_EntryFields(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"icons/sub/home.png": "x",
	})

	entries, err := NewScanner(fs, nil).Scan(ctx, "/p/assets", false)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "icons/sub/home.png", e.RelPath)
	assert.Equal(t, "home.png", e.Name)
	assert.Equal(t, "icons/sub", e.Dir)
	assert.Equal(t, "home", e.BaseName())
	assert.Equal(t, "sub", e.ParentName())
	assert.Equal(t, MediaImage, e.Type)
	assert.False(t, e.IsDir)
}

func TestScan_IgnorePatterns(t *testing.T) {
	t.Parallel()

	ctx, getLogs := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"icons/home.png":     "x",
		"icons/Thumbs.db":    "x",
		"raw/source.psd":     "x",
		"fonts/a.ttf":        "x",
		"fonts/drafts/b.ttf": "x",
	})

	scanner := NewScanner(fs, []string{"Thumbs.db", "**/*.psd", "fonts/drafts"})
	entries, err := scanner.Scan(ctx, "/p/assets", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"fonts/a.ttf", "icons/home.png"}, relPaths(entries))
	assert.Contains(t, getLogs(), "ignored by **/*.psd")
}

func TestScan_IncludeDirectoriesPrunesEmpty(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"icons/sub/home.png": "x",
		"only-hidden/.keep":  "x",
	})
	require.NoError(t, fs.MkdirAll("/p/assets/empty", 0o755))

	entries, err := NewScanner(fs, nil).Scan(ctx, "/p/assets", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"icons", "icons/sub", "icons/sub/home.png"}, relPaths(entries))
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, MediaDirectory, entries[0].Type)
	assert.Equal(t, "icons", entries[1].Dir)
}

func TestScan_Exclude(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"home.png":    "x",
		"assets.dart": "x",
	})

	entries, err := NewScanner(fs, nil).Exclude("/p/assets/assets.dart").Scan(ctx, "/p/assets", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"home.png"}, relPaths(entries))
}

func TestScan_MediaTypes(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/p/assets", map[string]string{
		"a.PNG":    "x",
		"b.svg":    "<svg/>",
		"c.lottie": "zip",
		"d.json":   lottieJSON,
		"e.json":   `{"name":"config"}`,
		"f.ttf":    "font",
		"g.webp":   "x",
	})

	entries, err := NewScanner(fs, nil).Scan(ctx, "/p/assets", false)
	require.NoError(t, err)

	got := make(map[string]MediaType)
	for _, e := range entries {
		got[e.Name] = e.Type
	}
	assert.Equal(t, map[string]MediaType{
		"a.PNG":    MediaImage,
		"b.svg":    MediaSVG,
		"c.lottie": MediaLottie,
		"d.json":   MediaLottie,
		"e.json":   MediaUnknown,
		"f.ttf":    MediaUnknown,
		"g.webp":   MediaImage,
	}, got)
}

func TestScan_MissingRoot(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)

	_, err := NewScanner(afero.NewMemMapFs(), nil).Scan(ctx, "/missing", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan /missing")
}

func TestValidatePatterns(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePatterns([]string{"**/*.psd", "Thumbs.db", "raw/{a,b}"}))

	err := ValidatePatterns([]string{"ok", "bad[", "never"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad["`)
}

func TestEntryBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Entry
		want  string
	}{
		{name: "single extension", input: Entry{Name: "home.png"}, want: "home"},
		{name: "double extension", input: Entry{Name: "archive.tar.gz"}, want: "archive.tar"},
		{name: "no extension", input: Entry{Name: "LICENSE"}, want: "LICENSE"},
		{name: "directory keeps dots", input: Entry{Name: "v1.2", IsDir: true}, want: "v1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.input.BaseName())
		})
	}
}
