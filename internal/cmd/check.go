package cmd

import (
	"io"

	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/bassjack1/monsterid/internal/report"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the monster catalog for empty groups and companion cycles",
	Long: `Summarize the health of the monster catalog.

Reports the number of groups, monsters, companion links and companion chains,
then lists groups that no monster belongs to, monsters naming a group that is
not in the groups table, and one companion cycle if any exists.

The findings are informational. Real catalogs contain companion cycles and
chains are capped, so the command still exits 0.`,
	Example: `  monsterid check
  monsterid check --format yaml
  monsterid check --source sqlite`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	g, members := graph.Build(cat, logger)
	out := report.NewCheckOutput(cat, members, g)
	return writeOutput(cmd, format, out, func(w io.Writer) {
		report.Check(w, out)
	})
}
