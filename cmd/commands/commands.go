// Package commands provides the "commands" reference command.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/output"
)

// NewCommand returns the commands reference subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the instructions the engine understands",
		Long: `Prints the catalog of spreadsheet operations and the phrasing the
deterministic matcher recognizes. The AI tier accepts freer phrasing but
resolves to the same operations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			writer := output.NewWriter()
			if jsonFlag {
				return writer.WriteJSON(map[string]any{
					"operations": engine.CatalogKinds(),
					"help":       engine.CatalogHelp(),
				})
			}
			return writer.WriteLn(engine.CatalogHelp())
		},
	}
}
