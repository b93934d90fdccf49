// Package ask provides the one-shot "ask" command.
package ask

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/internal/ai"
	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/diag"
	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/output"
	"github.com/sheetmind/sheetmind/internal/sheet"
)

// NewCommand returns the ask command.
func NewCommand() *cobra.Command {
	var (
		rangeRef  string
		sheetName string
	)

	cmd := &cobra.Command{
		Use:   "ask <instruction> <file.xlsx>",
		Short: "Run one natural-language instruction against a workbook",
		Long: `Resolves a single instruction against a selection in the workbook and
applies the resulting operations. Without --range the whole used area of
the sheet is selected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			utterance := args[0]
			filePath := args[1]
			if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
				return fmt.Errorf("expected a .xlsx file, got %q", filePath)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			wb, err := sheet.Open(filePath)
			if err != nil {
				return err
			}
			defer wb.Close()

			if sheetName != "" {
				if err := wb.SetSheet(sheetName); err != nil {
					return err
				}
			}

			sel := rangeRef
			if sel == "" {
				sel = wb.UsedRange()
			}
			if sel != "" {
				if err := wb.Select(sel); err != nil {
					return err
				}
			}

			provider, err := ai.NewProvider(providerName, modelName)
			if err != nil {
				// No usable model service: the rule tier still answers.
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

			resp, err := session.Submit(context.Background(), utterance)
			if err != nil {
				return err
			}

			writer := output.NewWriter()
			if jsonFlag {
				return writer.WriteJSON(map[string]any{
					"explanation": resp.Explanation,
					"response":    resp.Text,
					"tier":        resp.Tier,
					"operations":  resp.Operations,
					"failures":    resp.Failures(),
					"file":        filePath,
				})
			}

			writer.WriteResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&rangeRef, "range", "", "Selection in A1 notation (default: the sheet's used area)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to operate on (default: active sheet)")

	return cmd
}
