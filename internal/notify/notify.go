// Package notify delivers user-facing messages about generator runs.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notifier is the sink for user-facing messages.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Terminal writes colored notifications to a writer. It is safe for
// concurrent use.
type Terminal struct {
	out   io.Writer
	title string
	mu    sync.Mutex
}

// NewTerminal creates a terminal notifier that prefixes messages with title.
func NewTerminal(out io.Writer, title string) *Terminal {
	return &Terminal{out: out, title: title}
}

func (t *Terminal) Info(message string)  { t.write(color.New(color.FgGreen), message) }
func (t *Terminal) Warn(message string)  { t.write(color.New(color.FgYellow), message) }
func (t *Terminal) Error(message string) { t.write(color.New(color.FgRed, color.Bold), message) }

func (t *Terminal) write(c *color.Color, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.title != "" {
		_, _ = c.Fprintf(t.out, "[%s] ", t.title)
	}
	_, _ = fmt.Fprintln(t.out, message)
}

// Message is a notification captured by a Recorder.
type Message struct {
	Text  string
	Level Level
}

// Recorder keeps notifications in memory.
type Recorder struct {
	messages []Message
	mu       sync.Mutex
}

func (r *Recorder) Info(message string)  { r.add(LevelInfo, message) }
func (r *Recorder) Warn(message string)  { r.add(LevelWarn, message) }
func (r *Recorder) Error(message string) { r.add(LevelError, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: message})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Warn(string)  {}
func (Discard) Error(string) {}
