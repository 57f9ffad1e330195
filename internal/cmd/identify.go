package cmd

import (
	"errors"
	"io"

	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/bassjack1/monsterid/internal/identify"
	"github.com/bassjack1/monsterid/internal/query"
	"github.com/bassjack1/monsterid/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// identifyCmd is the explicit form of the root command
var identifyCmd = &cobra.Command{
	Use:   "identify TERM... XP_TERM",
	Short: "Infer the monsters killed in an encounter",
	Long: `Infer which specific monsters were killed from group and monster counts and
the experience points given to each survivor.

Every selection of concrete monsters whose total experience, divided evenly
among the survivors and rounded down, equals the reported award is printed.
One selection means the encounter is identified; several mean it is ambiguous.

By default all kills of one group are attributed to a single monster of that
group. With --split (or search.split_groups in the config) the kills may be
divided among several monsters of the group. A split search gives up after
trying about a million divisions; lower the counts if it does.`,
	Example: `  monsterid identify 5pri1mil1176x
  monsterid identify 1sh 8x 6c
  monsterid identify 2sa1000x5c --split --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
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

	parser := query.NewParser(cat, cfg.Query.DefaultPartySize)
	obs, err := parser.Parse(query.JoinArgs(args))
	if err != nil {
		return &inputError{err: err, cat: cat}
	}

	split := cfg.Search.SplitGroups
	if cmd.Flags().Changed("split") {
		split = splitGroups
	}

	_, members := graph.Build(cat, logger)
	engine := identify.New(cat, members,
		identify.WithLogger(logger),
		identify.WithSplitGroups(split))

	outcome, err := engine.Identify(obs)
	if err != nil {
		if errors.Is(err, identify.ErrUnknownKey) || errors.Is(err, identify.ErrExperienceRange) {
			return &inputError{err: err, cat: cat}
		}
		return err
	}

	logger.Debug("identified encounter",
		zap.Stringer("status", outcome.Status),
		zap.Int("assignments", len(outcome.Assignments)),
		zap.Bool("split", split))

	out := report.NewIdentifyOutput(cat, outcome)
	out.Split = split
	return writeOutput(cmd, format, out, func(w io.Writer) {
		report.Result(w, out)
	})
}
