// Package cmd contains all CLI commands for monsterid.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bassjack1/monsterid/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is the current version of monsterid
	Version = "0.1.0"

	// Global flags
	verbose       bool
	configPath    string
	forAgents     bool
	outputFormat  string
	catalogDir    string
	catalogSource string
	splitGroups   bool
	showUsage     bool

	// logger is replaced in PersistentPreRunE
	logger = zap.NewNop()
)

// rootCmd represents the base command. With arguments it identifies an
// encounter, without them it prints usage.
var rootCmd = &cobra.Command{
	Use:   "monsterid [TERM ...] XP_TERM",
	Short: "Identify the monsters of a Wizardry encounter from its experience award",
	Long: `monsterid infers which specific monsters were killed in an encounter from the
coarse group names shown before identification and the experience points
awarded to each surviving character.

Each TERM is <count><code>: a group code, a monster code, "x" for experience
points given to each survivor, or "c" for the number of characters standing at
the end of the encounter (default 6). Whitespace between terms is optional.

Examples:
  monsterid 5pri1mil1176x            # five priests and a man in leather
  monsterid 1sh 8x 6c                # one small humanoid, 8 xp each, 6 survivors
  monsterid 2sa 1000x 5c --split     # let one group stand for several monsters
  monsterid codes                    # list group and monster codes
  monsterid groups                   # show group members and multi-occurrence

See 'monsterid <command> --help' for command-specific options.`,
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and, for input errors, the expected grammar and
// every known code. It returns the process exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v\n", err)
	var ie *inputError
	if errors.As(err, &ie) && ie.cat != nil {
		report.ExpectedInput(w, ie.cat)
	}
	return 1
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .monsterid/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (text|yaml|json)")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Directory holding monsters.json and unidentified_groups.json")
	rootCmd.PersistentFlags().StringVar(&catalogSource, "source", "", "Catalog source (json|sqlite|dolt)")
	rootCmd.PersistentFlags().BoolVar(&splitGroups, "split", false, "Allow one group's kills to be divided among several of its monsters (gives up after about a million divisions)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")
	rootCmd.Flags().BoolVar(&showUsage, "usage", false, "Print usage")
	rootCmd.Flags().MarkHidden("usage")

	// Root help prints the program usage; --for-agents prints JSON instead
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		if cmd == rootCmd {
			report.Usage(cmd.OutOrStdout(), rootCmd.Name())
			return
		}
		originalHelp(cmd, args)
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if forAgents {
		outputAgentHelp(cmd)
		return nil
	}
	if showUsage || len(args) == 0 || report.IsHelpWord(args[0]) {
		report.Usage(cmd.OutOrStdout(), cmd.Name())
		return nil
	}
	return runIdentify(cmd, args)
}

// newLogger builds the production zap logger writing console lines to w.
// Only warnings and errors are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	encoder := zapcore.NewConsoleEncoder(config.EncoderConfig)
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), config.Level)
	return zap.New(core), nil
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	output := map[string]interface{}{
		"version":      Version,
		"usage":        root.Usage,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
