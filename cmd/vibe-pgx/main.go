// Package main provides the vibe-pgx command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Configuration defaults
const (
	defaultTopN    = 5
	defaultWorkers = 1
)

// usageError marks errors caused by bad arguments rather than failed work.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a positional argument validator so its failures exit
// with ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	_ = godotenv.Load()

	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "vibe-pgx",
		Short: "Pharmacogenomic gene-drug interaction analysis",
		Long: `vibe-pgx matches a personal genotype file against PharmGKB variant
annotations (var_drug_ann.tsv), builds a gene-drug interaction network
from the significant efficacy associations, and ranks genes and drugs by
degree.`,
		Example: `  # Analyze a 23andMe export
  vibe-pgx analyze genome.txt --annotations var_drug_ann.tsv

  # Cache annotations in DuckDB, then analyze a VCF with 8 workers
  vibe-pgx import var_drug_ann.tsv
  vibe-pgx analyze sample.vcf.gz --annotations var_drug_ann.tsv --workers 8`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	root.AddCommand(newAnalyzeCmd(&verbose))
	root.AddCommand(newImportCmd(&verbose))
	root.AddCommand(newLookupCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-pgx version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig reads ~/.vibe-pgx.yaml and VIBE_PGX_* environment variables.
func initConfig() error {
	viper.SetDefault("top_n", defaultTopN)
	viper.SetDefault("workers", defaultWorkers)
	viper.SetDefault("cache_dir", defaultCacheDir())

	viper.SetEnvPrefix("VIBE_PGX")
	viper.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".vibe-pgx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// defaultCacheDir returns ~/.vibe-pgx, or a relative directory when the
// home directory is unknown.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibe-pgx"
	}
	return filepath.Join(home, ".vibe-pgx")
}

// defaultDBPath returns the annotation cache database inside cache_dir.
func defaultDBPath() string {
	return filepath.Join(viper.GetString("cache_dir"), "pgx.duckdb")
}

// newLogger returns a console logger on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
