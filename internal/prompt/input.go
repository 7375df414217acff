// Package prompt reads interactive answers for assetgen init.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter interface
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// TextInput asks for a value, returning def when the answer is blank.
func TextInput(prompter Prompter, prompt, def string) (string, error) {
	label := prompt
	if def != "" {
		label += " " + color.New(color.Faint).Sprintf("[%s]", def)
	}

	result, err := ask(prompter, label)
	if err != nil {
		return "", err
	}
	if result = strings.TrimSpace(result); result == "" {
		return def, nil
	}
	return result, nil
}

// Confirm asks a yes/no question. A blank answer selects def.
func Confirm(prompter Prompter, prompt string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		result, err := ask(prompter, prompt+" "+hint)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(result)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		color.Yellow("Please answer y or n.")
	}
}

func ask(prompter Prompter, label string) (string, error) {
	result, err := prompter.Prompt(color.CyanString(label + ": "))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("text input failed: %w", err)
	}
	return result, nil
}
