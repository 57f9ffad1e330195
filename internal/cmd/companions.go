package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/spf13/cobra"
)

var companionsCmd = &cobra.Command{
	Use:   "companions [MONSTER]",
	Short: "List companion chains or draw the companion graph",
	Long: `List the chains of monsters that may appear together because each one can
bring along the next. Chains hold at most four monsters, the largest number of
groups in one encounter.

Without an argument every chain is listed; with a monster code only the chains
starting at that monster. --mermaid draws the whole companion graph as a
Mermaid flowchart with one subgraph per group instead.`,
	Example: `  monsterid companions
  monsterid companions mtl
  monsterid companions --mermaid > companions.mmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompanions,
}

var (
	companionsMermaid   bool
	companionsDirection string
)

func init() {
	rootCmd.AddCommand(companionsCmd)

	companionsCmd.Flags().BoolVar(&companionsMermaid, "mermaid", false, "Draw the companion graph as a Mermaid flowchart")
	companionsCmd.Flags().StringVar(&companionsDirection, "direction", "LR", "Mermaid layout direction (LR|TD)")
}

// ChainOutput is one companion chain.
type ChainOutput struct {
	Keys  []string `yaml:"keys" json:"keys"`
	Names []string `yaml:"names" json:"names"`
}

// CompanionsOutput is the structured chain listing.
type CompanionsOutput struct {
	Start  string        `yaml:"start,omitempty" json:"start,omitempty"`
	Chains []ChainOutput `yaml:"chains" json:"chains"`
}

func runCompanions(cmd *cobra.Command, args []string) error {
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

	g, _ := graph.Build(cat, logger)

	if companionsMermaid {
		opts := graph.DefaultMermaidOptions()
		opts.Direction = companionsDirection
		fmt.Fprint(cmd.OutOrStdout(), graph.Mermaid(cat, g, opts))
		return nil
	}

	out := &CompanionsOutput{Chains: []ChainOutput{}}
	var chains []graph.Chain
	if len(args) == 1 {
		if _, ok := cat.Monster(args[0]); !ok {
			return fmt.Errorf("%q is not a monster code", args[0])
		}
		out.Start = args[0]
		chains = g.Chains(args[0])
	} else {
		chains = g.AllChains()
	}
	for _, c := range chains {
		out.Chains = append(out.Chains, chainOutput(cat, c))
	}

	return writeOutput(cmd, format, out, func(w io.Writer) {
		for _, c := range out.Chains {
			fmt.Fprintln(w, strings.Join(c.Names, " -> "))
		}
	})
}

func chainOutput(cat *catalog.Catalog, c graph.Chain) ChainOutput {
	names := make([]string, 0, len(c))
	for _, key := range c {
		names = append(names, cat.DisplayName(key))
	}
	return ChainOutput{Keys: append([]string(nil), c...), Names: names}
}
