package main

import (
	"fmt"
	"os"

	"github.com/wizzomafizzo/assetgen/internal/generator"
)

const (
	exitFailure       = 1
	exitConfiguration = 2
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	if err := createNewRootCommand().Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

// exitCode separates settings the user must fix from runtime failures.
func exitCode(err error) int {
	if generator.IsConfigurationError(err) {
		return exitConfiguration
	}
	return exitFailure
}
