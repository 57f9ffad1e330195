package cmd

import (
	"fmt"
	"io"

	"github.com/bassjack1/monsterid/internal/config"
	"github.com/bassjack1/monsterid/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or show the monsterid configuration",
	Long: `Manage .monsterid/config.yaml.

The config file is searched for by walking up from the current directory.
Flags such as --source, --catalog-dir and --format override its values.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to .monsterid/config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SaveDefault(".")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and the global flag
overrides are merged. Text format prints YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := resolveFormat(cfg)
		if err != nil {
			return err
		}
		if !format.IsStructured() {
			format = output.FormatYAML
		}
		return writeOutput(cmd, format, cfg, func(io.Writer) {})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
