// Package cmd contains all CLI commands for the sheetmind binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/cmd/ask"
	"github.com/sheetmind/sheetmind/cmd/chat"
	"github.com/sheetmind/sheetmind/cmd/commands"
	"github.com/sheetmind/sheetmind/cmd/completion"
	cmdconfig "github.com/sheetmind/sheetmind/cmd/config"
	"github.com/sheetmind/sheetmind/cmd/run"
	"github.com/sheetmind/sheetmind/cmd/version"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetmind",
		Short: "Talk to your spreadsheet in plain language",
		Long: `SheetMind — natural-language commands for .xlsx workbooks.

Select a range, say what you want ("sum this column", "format as currency",
"create a bar chart"), and the engine turns it into spreadsheet operations —
AI-interpreted when a model is available, deterministic keyword matching
otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "AI model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", defaultProvider(), "AI provider: anthropic | openai | ollama | none")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(ask.NewCommand())
	rootCmd.AddCommand(chat.NewCommand())
	rootCmd.AddCommand(run.NewCommand())
	rootCmd.AddCommand(commands.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func defaultModel() string {
	if m := os.Getenv("SHEETMIND_MODEL"); m != "" {
		return m
	}
	return ""
}

func defaultProvider() string {
	if p := os.Getenv("SHEETMIND_PROVIDER"); p != "" {
		return p
	}
	return "anthropic"
}
