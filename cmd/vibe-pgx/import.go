package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/duckdb"
	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

func newImportCmd(verbose *bool) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import [flags] <annotations.tsv>",
		Short: "Cache PharmGKB annotations in DuckDB",
		Long: `Load a PharmGKB variant annotation TSV (var_drug_ann.tsv) into a
DuckDB cache. analyze reuses the cache while the TSV's path, size and
modification time are unchanged.`,
		Example: `  vibe-pgx import var_drug_ann.tsv
  vibe-pgx import var_drug_ann.tsv.gz --db /data/pgx.duckdb`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			if dbPath == "" {
				dbPath = defaultDBPath()
			}
			return runImport(cmd.OutOrStdout(), args[0], dbPath, logger)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB cache file (default: <cache_dir>/pgx.duckdb)")

	return cmd
}

func runImport(out io.Writer, annotationsPath, dbPath string, logger *zap.Logger) error {
	path, err := filepath.Abs(annotationsPath)
	if err != nil {
		return fmt.Errorf("resolve annotation path: %w", err)
	}
	fp, err := duckdb.StatFile(path)
	if err != nil {
		return fmt.Errorf("annotation file: %w", err)
	}

	records, err := pharmgkb.LoadAnnotations(path)
	if err != nil {
		return fmt.Errorf("load annotations: %w", err)
	}
	logger.Debug("parsed annotations", zap.String("path", path), zap.Int("records", len(records)))

	db, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cacheAnnotations(db, records, fp); err != nil {
		return fmt.Errorf("cache annotations: %w", err)
	}

	count, err := db.AnnotationCount()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Cached %d annotations from %s in %s\n", count, path, dbPath)
	return nil
}
