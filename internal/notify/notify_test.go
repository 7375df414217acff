package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestTerminal(t *testing.T) { //nolint:paralleltest // toggles the global color.NoColor
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	n := NewTerminal(&buf, "assetgen")
	n.Info("generate succeed")
	n.Warn("nothing changed")
	n.Error("boom")

	assert.Equal(t, "[assetgen] generate succeed\n[assetgen] nothing changed\n[assetgen] boom\n", buf.String())
}

func TestTerminalWithoutTitle(t *testing.T) { //nolint:paralleltest // toggles the global color.NoColor
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	NewTerminal(&buf, "").Info("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Warn("w")
		}()
	}
	wg.Wait()
	r.Info("done")

	msgs := r.Messages()
	assert.Len(t, msgs, 11)
	assert.Equal(t, Message{Level: LevelInfo, Text: "done"}, msgs[10])

	msgs[0].Text = "changed"
	assert.Equal(t, "w", r.Messages()[0].Text, "Messages returns a copy")
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "level(7)", Level(7).String())
}

func TestImplementations(t *testing.T) {
	t.Parallel()

	var _ Notifier = (*Terminal)(nil)
	var _ Notifier = (*Recorder)(nil)
	var _ Notifier = Discard{}
}
