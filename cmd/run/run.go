// Package run provides the "run" command for executing utterance scripts.
package run

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/internal/ai"
	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/diag"
	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/output"
	"github.com/sheetmind/sheetmind/internal/script"
	"github.com/sheetmind/sheetmind/internal/sheet"
)

// NewCommand returns the run command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a YAML script of instructions against a workbook",
		Long: `Executes a sequence of natural-language steps from a YAML file, in
order, against the workbook the script names. Each step may set its own
selection. Example script:

  name: monthly-report
  workbook: sales.xlsx
  steps:
    - range: A1:D20
      say: sort descending
    - range: D2:D20
      say: format as currency
    - say: sum the selection
      on_failure: skip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Workbook paths resolve relative to the script file.
			wbPath := s.Workbook
			if !filepath.IsAbs(wbPath) {
				wbPath = filepath.Join(filepath.Dir(args[0]), wbPath)
			}

			wb, err := sheet.Open(wbPath)
			if err != nil {
				return err
			}
			defer wb.Close()

			if s.Sheet != "" {
				if err := wb.SetSheet(s.Sheet); err != nil {
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
			session := engine.NewSession(dispatcher)

			runner := script.NewRunner(wb, session, verbose)
			results, runErr := runner.Run(cmd.Context(), s)

			if jsonFlag {
				out := make([]map[string]any, 0, len(results))
				for _, r := range results {
					item := map[string]any{"step": r.StepID}
					if r.Response != nil {
						item["response"] = r.Response.Text
						item["tier"] = r.Response.Tier
					}
					if r.Err != nil {
						item["error"] = r.Err.Error()
					}
					out = append(out, item)
				}
				if err := output.NewWriter().WriteJSON(out); err != nil {
					return err
				}
				return runErr
			}

			for _, r := range results {
				if r.Err != nil {
					color.New(color.FgRed).Printf("[%s] failed: %s\n", r.StepID, r.Err)
					continue
				}
				fmt.Printf("[%s] %s\n", r.StepID, r.Response.Text)
			}
			return runErr
		},
	}

	return cmd
}
