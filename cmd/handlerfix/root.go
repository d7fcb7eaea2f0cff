package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"handlerfix/internal/slogutil"
	"handlerfix/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// quietFlag suppresses all progress output
	quietFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "handlerfix",
	Short: "handlerfix - TypeScript tool handler signature normalizer",
	Long: `handlerfix normalizes the parameter signature of MCP tool handler methods
in TypeScript source files. Handlers declared with a specific params type are
rewritten to the canonical untyped form (Record<string, unknown>), a
type-narrowing statement is inserted at the top of each method body, and
in-body parameter references are repaired to the narrowed bindings.

The pass is idempotent: running it against its own output changes nothing.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("handlerfix version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress progress output")
}

// newRunLogger builds the logger for a command run. Precedence:
// --quiet > --log-level > config value.
func newRunLogger(configLevel string) *slog.Logger {
	level := slogutil.LevelFromString(configLevel)
	if logLevelFlag != "" {
		level = slogutil.LevelFromString(logLevelFlag)
	}
	if quietFlag {
		level = slogutil.LevelFromVerbosity(0, true)
	}
	return slogutil.NewLogger(os.Stderr, level)
}
