package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestConfig(writer *strings.Builder) Config {
	return Config{
		Writer:      writer,
		ProjectRoot: "/test/project",
		Level:       InfoLevel,
	}
}

func TestGet_WithoutLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	logger := Get(ctx)

	require.NotNil(t, logger)
	// When no logger is attached, zerolog.Ctx returns a disabled logger
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNew_WithCustomWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	config := createTestConfig(&buf)

	ctx, err := New(context.Background(), nil, config)

	require.NoError(t, err)
	require.NotNil(t, ctx)

	logger := Get(ctx)
	require.NotNil(t, logger)
	assert.Equal(t, InfoLevel, logger.GetLevel())
}

func TestNew_IncludesProjectRoot(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))
	require.NoError(t, err)

	Get(ctx).Info().Str("output", "lib/generated/assets.dart").Msg("generated")

	output := buf.String()
	assert.Contains(t, output, `"project_root":"/test/project"`)
	assert.Contains(t, output, `"output":"lib/generated/assets.dart"`)
	assert.Contains(t, output, `"message":"generated"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))
	require.NoError(t, err)

	Get(ctx).Debug().Msg("hidden debug line")

	assert.NotContains(t, buf.String(), "hidden debug line")
}

func TestNew_NoWriterNoFilesystem_ReturnsError(t *testing.T) {
	t.Parallel()

	config := Config{
		Writer:      nil,
		ProjectRoot: "/test/project",
		Level:       InfoLevel,
	}

	ctx, err := New(context.Background(), nil, config)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem required when no writer provided")
	assert.Nil(t, ctx)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: InfoLevel},
		{name: "debug", input: "debug", want: DebugLevel},
		{name: "upper case accepted", input: "WARN", want: WarnLevel},
		{name: "unknown level", input: "loud", want: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_LogPathOverride(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "custom.log")
	ctx, err := New(context.Background(), afero.NewOsFs(), Config{
		LogPath:     logPath,
		ProjectRoot: "/test/project",
		Level:       InfoLevel,
	})
	require.NoError(t, err)

	Get(ctx).Info().Msg("hello file")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}
