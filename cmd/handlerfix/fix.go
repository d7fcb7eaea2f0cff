package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"handlerfix/internal/config"
	"handlerfix/internal/rewrite"
)

var (
	fixExtension string
	fixRecursive bool
	fixDryRun    bool
	fixExclude   []string
	fixClient    string
	fixPrefix    string
	fixFormat    string
)

var fixCmd = &cobra.Command{
	Use:   "fix <directory>",
	Short: "Normalize handler signatures in a directory",
	Long: `Normalize the parameter signature of every handler-shaped method found in
the source files of <directory>.

A method is handler-shaped when it matches:

  public async handleX(client: WordPressClient, params: <T>): Promise<unknown>

For each such method whose <T> is not already Record<string, unknown>, the
declaration is canonicalized, a narrowing statement is inserted as the first
body statement, and in-body references to the raw parameter are repaired.
Files are written back only when their content actually changed.

The directory is listed flat by default; use --recursive to walk subtrees
(node_modules, .git, dist, build and vendor are never descended into).

Examples:
  # Fix all .ts files in src/tools
  handlerfix fix src/tools

  # Preview without writing
  handlerfix fix src/tools --dry-run

  # Walk the whole tree, emit the run result as JSON
  handlerfix fix src --recursive --output json`,
	Args: cobra.ExactArgs(1),
	Run:  runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixExtension, "ext", "", "File extension filter (default: .ts)")
	fixCmd.Flags().BoolVarP(&fixRecursive, "recursive", "r", false, "Walk the directory tree recursively")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Report what would change without writing files")
	fixCmd.Flags().StringArrayVar(&fixExclude, "exclude", nil, "Exclude paths matching these globs (repeatable)")
	fixCmd.Flags().StringVar(&fixClient, "client-type", "", "Declared type of the first handler parameter (default: WordPressClient)")
	fixCmd.Flags().StringVar(&fixPrefix, "method-prefix", "", "Handler method name prefix (default: handle)")
	fixCmd.Flags().StringVarP(&fixFormat, "output", "o", "human", "Output format: human, json")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newRunLogger(cfg.Logging.Level)

	// CLI flags override config, config overrides built-in defaults.
	opts := rewrite.Options{
		Dir:          args[0],
		Extension:    cfg.Extension,
		Recursive:    cfg.Recursive,
		Exclude:      cfg.Exclude,
		ClientType:   cfg.ClientType,
		MethodPrefix: cfg.MethodPrefix,
		DryRun:       fixDryRun,
	}
	if fixExtension != "" {
		opts.Extension = fixExtension
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = fixRecursive
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = fixExclude
	}
	if fixClient != "" {
		opts.ClientType = fixClient
	}
	if fixPrefix != "" {
		opts.MethodPrefix = fixPrefix
	}

	rewriter := rewrite.New(logger)
	result, err := rewriter.Run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch fixFormat {
	case "human":
		printHumanRunResult(result)
	default: // json
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(output))
	}
}

func printHumanRunResult(result *rewrite.RunResult) {
	fmt.Printf("Handler Fix Results\n")
	fmt.Printf("===================\n\n")

	fmt.Printf("Directory:   %s\n", result.Dir)
	fmt.Printf("Duration:    %s\n", result.Duration)
	fmt.Printf("Scanned:     %d files\n", result.Summary.FilesScanned)
	if result.Options.DryRun {
		fmt.Printf("Would fix:   %d files (%d declarations)\n",
			result.Summary.FilesRewritten, result.Summary.DeclarationsFixed)
	} else {
		fmt.Printf("Rewritten:   %d files (%d declarations)\n",
			result.Summary.FilesRewritten, result.Summary.DeclarationsFixed)
	}
	if result.Summary.DeclarationsSkipped > 0 {
		fmt.Printf("Skipped:     %d declarations (no insertion point)\n",
			result.Summary.DeclarationsSkipped)
	}
	if result.Summary.FilesFailed > 0 {
		fmt.Printf("Failed:      %d files\n", result.Summary.FilesFailed)
	}
	fmt.Println()

	for _, fr := range result.Files {
		if fr.State == rewrite.FileUnchanged && len(fr.Skipped) == 0 {
			continue
		}
		fmt.Printf("%s (%s)\n", fr.Path, fr.State)
		for _, fix := range fr.Fixes {
			fmt.Printf("  %s: %s -> %s [%s]\n", fix.Method, fix.FromType, rewrite.CanonicalType, fix.Rule)
		}
		for _, method := range fr.Skipped {
			fmt.Printf("  %s: skipped, no insertion point\n", method)
		}
		if fr.Error != "" {
			fmt.Printf("  error: %s\n", fr.Error)
		}
	}
}
