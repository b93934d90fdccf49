// Package chat provides the interactive "chat" command.
package chat

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/internal/ai"
	chatpkg "github.com/sheetmind/sheetmind/internal/chat"
	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/diag"
	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/refresh"
	"github.com/sheetmind/sheetmind/internal/sheet"
)

// NewCommand returns the chat command.
func NewCommand() *cobra.Command {
	var (
		rangeRef  string
		sheetName string
		noRefresh bool
	)

	cmd := &cobra.Command{
		Use:   "chat <file.xlsx>",
		Short: "Start an interactive session over a workbook",
		Long: `Open a workbook and issue natural-language commands against it
interactively. One command runs at a time; a background task keeps a
read-only snapshot of the selection fresh for the 'status' view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			wb, err := sheet.Open(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			if sheetName != "" {
				if err := wb.SetSheet(sheetName); err != nil {
					return err
				}
			}
			if rangeRef != "" {
				if err := wb.Select(rangeRef); err != nil {
					return err
				}
			}

			provider, err := ai.NewProvider(providerName, modelName)
			if err != nil {
				if verbose {
					fmt.Fprintf(os.Stderr, "AI tier disabled: %s\n", err)
				}
				provider = nil
			}

			dl := diag.NewLogger(cfg.Diagnostics.Path, cfg.Diagnostics.Enabled)
			dispatcher := engine.NewDispatcher(wb, []engine.Interpreter{
				engine.NewAITier(provider),
				engine.NewRuleMatcher(),
			}, dl)
			session := chatpkg.NewSession(wb, engine.NewSession(dispatcher))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if !noRefresh {
				interval := time.Duration(cfg.Refresh.IntervalMs) * time.Millisecond
				refresher := refresh.New(args[0], interval, session.Position)
				session.Refresher = refresher
				go func() {
					if err := refresher.Start(ctx); err != nil && verbose {
						fmt.Fprintf(os.Stderr, "refresh task stopped: %s\n", err)
					}
				}()
			}

			return session.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&rangeRef, "range", "", "Initial selection in A1 notation")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to operate on (default: active sheet)")
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Disable the background snapshot refresh")

	return cmd
}
