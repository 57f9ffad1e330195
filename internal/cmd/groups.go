package cmd

import (
	"io"

	"github.com/bassjack1/monsterid/internal/analysis"
	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/bassjack1/monsterid/internal/report"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Show the monsters of each unidentified group and multi-occurring groups",
	Long: `Show detailed information about all unidentified groups.

Groups are split into those with exactly one monster, which identify
themselves, and those with several. The last section lists groups that can
appear more than once in one encounter because a monster's companions belong
to the same group. For each such group the companion chain is shown from the
group's first to its last member, with the group's members capitalized.`,
	Example: `  monsterid groups
  monsterid groups --format yaml`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, args []string) error {
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
	out := analysis.Groups(cat, members, g)
	return writeOutput(cmd, format, out, func(w io.Writer) {
		report.Groups(w, out)
	})
}
