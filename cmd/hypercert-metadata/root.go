package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hypercert-metadata/internal/batch"
	"hypercert-metadata/internal/config"
	"hypercert-metadata/internal/logging"
	"hypercert-metadata/internal/metadata"
	"hypercert-metadata/internal/override"
	"hypercert-metadata/internal/registry"
)

// cli holds flag values and the state shared by all commands.
type cli struct {
	configPath    string
	envFile       string
	registryPath  string
	overridesPath string
	reportPath    string
	workers       int
	verbose       bool
	jsonLogs      bool
	logPaths      []string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	return (&cli{}).command()
}

func (c *cli) command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hypercert-metadata <input.csv> [output_dir]",
		Short: "Build hypercert metadata from a Gitcoin round application export",
		Long: `hypercert-metadata reads a Gitcoin Grants application export (CSV with
project_id and ipfs_data columns) and writes one hypercert metadata JSON file
per project that the canonical project registry lists for its round.

Rows that cannot be parsed or mapped are reported and skipped; the run only
fails when the registry or the input file cannot be read.`,
		Args:              cobra.RangeArgs(1, 2),
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runBuild,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file with HYPERCERT_* variables")
	flags.StringVar(&c.registryPath, "registry", "", "canonical project list JSON (overrides config)")
	flags.StringVar(&c.overridesPath, "overrides", "", "work scope override CSV (overrides config)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.jsonLogs, "json-logs", false, "write logs as JSON")

	rootCmd.Flags().IntVarP(&c.workers, "workers", "w", 0, "rows processed concurrently (overrides config)")
	rootCmd.Flags().StringVar(&c.reportPath, "report", "", "write row diagnostics as JSON to this path")

	rootCmd.AddCommand(c.newCheckCmd(), c.newVerifyCmd(), newVersionCmd())

	return rootCmd
}

// setup loads configuration and builds the logger.
// Priority: defaults < config file < env file/environment < flags.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}

	err = config.ApplyEnv(cfg, c.envFile)
	if err != nil {
		return err
	}

	if c.registryPath != "" {
		cfg.RegistryPath = c.registryPath
	}

	if c.overridesPath != "" {
		cfg.OverridesPath = c.overridesPath
	}

	if c.workers != 0 {
		cfg.Workers = c.workers
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose:     c.verbose,
		JSON:        c.jsonLogs,
		OutputPaths: c.logPaths,
	})
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger

	logger.Debug("Resolved configuration",
		zap.String("config_file", c.configPath),
		zap.String("registry", cfg.RegistryPath),
		zap.String("overrides", cfg.OverridesPath),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("rounds", len(cfg.RoundList)),
		zap.Int("workers", cfg.Workers))

	return nil
}

// loadRegistry loads the project registry. Failure is fatal for every command.
func (c *cli) loadRegistry() (*registry.Registry, error) {
	reg, err := registry.LoadFile(c.cfg.RegistryPath)
	if err != nil {
		c.logger.Error("Failed to load project registry", zap.String("path", c.cfg.RegistryPath), zap.Error(err))
		return nil, err
	}

	c.logger.Info("Loaded project registry",
		zap.String("path", c.cfg.RegistryPath),
		zap.Int("rounds", len(reg.Rounds())),
		zap.Int("projects", reg.Len()))

	return reg, nil
}

// loadOverrides loads the override table. A missing file yields an empty table.
func (c *cli) loadOverrides() (override.Table, error) {
	table, err := override.LoadFile(c.cfg.OverridesPath)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("Override file not found, using default work scopes", zap.String("path", c.cfg.OverridesPath))
		return override.Table{}, nil
	}

	if err != nil {
		return nil, err
	}

	c.logger.Info("Loaded work scope overrides", zap.String("path", c.cfg.OverridesPath), zap.Int("overrides", len(table)))

	return table, nil
}

func (c *cli) runBuild(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	outputDir := c.cfg.OutputDir
	if len(args) == 2 {
		outputDir = args[1]
	}

	reg, err := c.loadRegistry()
	if err != nil {
		return err
	}

	overrides, err := c.loadOverrides()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	driver := batch.New(metadata.NewMapper(c.cfg, reg), batch.Options{
		OutputDir: outputDir,
		Workers:   c.cfg.Workers,
		Indent:    c.cfg.Defaults.Indent,
		Overrides: overrides,
		Logger:    c.logger,
	})

	res, err := driver.RunFile(cmd.Context(), inputPath)
	if err != nil {
		c.logger.Error("Metadata build failed", zap.String("input", inputPath), zap.Error(err))
		return err
	}

	if err := res.Diagnostics.Error(); err != nil {
		c.logger.Debug("Rows skipped", zap.Int("failed", res.Failed), zap.Error(err))
	}

	if c.reportPath != "" {
		if err := res.Diagnostics.WriteFile(c.reportPath); err != nil {
			return err
		}

		c.logger.Info("Wrote diagnostics report", zap.String("path", c.reportPath))
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())

	return nil
}
