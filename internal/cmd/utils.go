package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/config"
	"github.com/bassjack1/monsterid/internal/output"
	"github.com/bassjack1/monsterid/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inputError marks a bad query. Execute follows it with the expected
// grammar and the catalog's codes.
type inputError struct {
	err error
	cat *catalog.Catalog
}

func (e *inputError) Error() string { return e.err.Error() }

func (e *inputError) Unwrap() error { return e.err }

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if catalogDir != "" {
		cfg.Catalog.Dir = catalogDir
	}
	if catalogSource != "" {
		cfg.Catalog.Source = catalogSource
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// workDir is the directory relative paths in the config resolve against.
func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// openStore opens the SQL store named by the config's catalog source.
func openStore(cfg *config.Config) (*store.Store, error) {
	backend, err := store.ParseBackend(cfg.Catalog.Source)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(backend, cfg.DBPath(workDir()))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// loadCatalog reads the catalog from the JSON files or the SQL store.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Catalog.Source == "json" {
		src := catalog.NewFileSource(cfg.Catalog.Dir, cfg.Catalog.MonstersFile, cfg.Catalog.GroupsFile)
		logger.Debug("loading catalog",
			zap.String("monsters", src.MonstersPath),
			zap.String("groups", src.GroupsPath))
		return catalog.Load(ctx, src)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	empty, err := st.Empty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, fmt.Errorf("%s store at %s has no monsters: run 'monsterid import' first", st.Backend(), st.Path())
	}

	logger.Debug("loading catalog", zap.String("backend", string(st.Backend())), zap.String("path", st.Path()))
	return catalog.Load(ctx, st)
}

// resolveFormat returns the configured output format.
func resolveFormat(cfg *config.Config) (output.Format, error) {
	return output.ParseFormat(cfg.Output.Format)
}

// writeOutput writes v through the structured formatter for yaml and
// json, and calls text otherwise.
func writeOutput(cmd *cobra.Command, format output.Format, v interface{}, text func(w io.Writer)) error {
	if !format.IsStructured() {
		text(cmd.OutOrStdout())
		return nil
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), v)
}
