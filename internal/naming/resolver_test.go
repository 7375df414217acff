package naming

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/assetgen/internal/assets"
)

func file(rel string) assets.Entry {
	dir := ""
	name := rel
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			dir = rel[:i]
			name = rel[i+1:]
			break
		}
	}
	return assets.Entry{RelPath: rel, Name: name, Dir: dir, Type: assets.MediaUnknown}
}

func names(constants []Constant) map[string]string {
	out := make(map[string]string, len(constants))
	for _, c := range constants {
		out[c.Entry.RelPath] = c.Name
	}
	return out
}

func TestResolve_NamedWithParentDisambiguates(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		file("icons/home.png"),
		file("icons/settings.png"),
		file("icons/sub/home.png"),
	}

	constants, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"icons/home.png":     "iconsHome",
		"icons/settings.png": "settings",
		"icons/sub/home.png": "subHome",
	}, names(constants))
}

func TestResolve_NumericFallbackWithoutParent(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		file("a/home.png"),
		file("b/home.png"),
		file("c/home.jpg"),
	}

	constants, err := Resolve(entries, Options{NamedWithParent: false})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"a/home.png": "home",
		"b/home.png": "home1",
		"c/home.jpg": "home2",
	}, names(constants))
}

func TestResolve_SuffixAfterParentPrefixCollision(t *testing.T) {
	t.Parallel()

	// Same parent name at different depths still collides after prefixing.
	entries := []assets.Entry{
		file("x/icons/home.png"),
		file("y/icons/home.png"),
	}

	constants, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"x/icons/home.png": "iconsHome",
		"y/icons/home.png": "iconsHome1",
	}, names(constants))
}

func TestResolve_RootEntriesKeepBaseName(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		file("home.png"),
		file("icons/home.png"),
	}

	constants, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"home.png":       "home",
		"icons/home.png": "iconsHome",
	}, names(constants))
}

func TestResolve_SkipsTakenSuffix(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		file("home.png"),
		file("home1.png"),
		file("other/home.png"),
	}

	constants, err := Resolve(entries, Options{})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"home.png":       "home",
		"home1.png":      "home1",
		"other/home.png": "home2",
	}, names(constants))
}

func TestResolve_ReservedNamesAvoided(t *testing.T) {
	t.Parallel()

	constants, err := Resolve([]assets.Entry{file("assets.png")}, Options{Reserved: []string{"assets"}})
	require.NoError(t, err)

	assert.Equal(t, "assets1", constants[0].Name)
}

func TestResolve_DirectoryEntries(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		{RelPath: "icons", Name: "icons", IsDir: true, Type: assets.MediaDirectory},
		file("icons/icons.png"),
	}

	constants, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"icons":           "iconsDir",
		"icons/icons.png": "icons",
	}, names(constants))
}

func TestResolve_Exhausted(t *testing.T) {
	t.Parallel()

	entries := make([]assets.Entry, 0, 4)
	for i := range 4 {
		entries = append(entries, file(fmt.Sprintf("d%d/home.png", i)))
	}

	_, err := Resolve(entries, Options{MaxSuffix: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollisionPolicyExhausted))
	assert.Contains(t, err.Error(), "d3/home.png")
}

func TestResolve_UniqueAndValid(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{
		file("1.png"), file("a1.png"), file("class.png"), file("class_.png"),
		file("x/my-image.png"), file("y/my_image.png"), file("z/My Image.png"),
		file("_.png"), file("asset.png"),
		file("hash_code.png"), file("to_string.png"), file("runtime-type.png"),
		file("no_such_method.png"), file("hashCode_.png"),
	}

	for _, withParent := range []bool{true, false} {
		constants, err := Resolve(entries, Options{NamedWithParent: withParent})
		require.NoError(t, err)
		require.Len(t, constants, len(entries))

		seen := make(map[string]bool)
		for _, c := range constants {
			assert.True(t, IsValidIdentifier(c.Name), "%q invalid", c.Name)
			assert.False(t, seen[c.Name], "%q duplicated", c.Name)
			seen[c.Name] = true
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	entries := []assets.Entry{file("a/x.png"), file("b/x.png"), file("c/x.png")}

	first, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)
	second, err := Resolve(entries, Options{NamedWithParent: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
