// Package config provides CLI commands for configuration management.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage SheetMind configuration",
		Long:  "View settings and generate the default config file.",
	}

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())

	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault()
			if errors.Is(err, os.ErrExist) {
				fmt.Printf("Config already exists at %s\n", path)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(cfg)
			}

			fmt.Printf("provider:             %s\n", cfg.Provider)
			fmt.Printf("model:                %s\n", displayValue(cfg.Model))
			fmt.Printf("ollama.host:          %s\n", displayValue(cfg.Ollama.Host))
			fmt.Printf("refresh.interval_ms:  %d\n", cfg.Refresh.IntervalMs)
			fmt.Printf("diagnostics.enabled:  %t\n", cfg.Diagnostics.Enabled)
			fmt.Printf("diagnostics.path:     %s\n", cfg.Diagnostics.Path)
			fmt.Printf("output.format:        %s\n", cfg.Output.Format)
			fmt.Printf("output.color:         %t\n", cfg.Output.Color)
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.Path())
		},
	}
}

func displayValue(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
