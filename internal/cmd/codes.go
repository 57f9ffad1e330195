package cmd

import (
	"io"

	"github.com/bassjack1/monsterid/internal/report"
	"github.com/spf13/cobra"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List unidentified group codes and monster codes",
	Long: `List every code accepted in an encounter query.

Group codes (g) stand for the coarse names the game shows before monsters are
identified. Monster codes (m) name one concrete monster. Several monsters share
an in-game name, so the key name column tells them apart.`,
	Example: `  monsterid codes
  monsterid codes --format json`,
	Args: cobra.NoArgs,
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := report.NewCodesOutput(cat)
	return writeOutput(cmd, format, out, func(w io.Writer) {
		report.Codes(w, out)
	})
}
