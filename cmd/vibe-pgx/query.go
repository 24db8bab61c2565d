package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-pgx/internal/duckdb"
	"github.com/inodb/vibe-pgx/internal/match"
	"github.com/inodb/vibe-pgx/internal/output"
)

func newLookupCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "lookup [flags] <rsid>...",
		Short: "Show cached annotations for rsIDs",
		Long: `Print the cached PharmGKB annotations for each rsID, one row per
annotation, with a Qualifies column marking the significant efficacy
associations analyze would use. Requires a cache built by import.`,
		Example: `  vibe-pgx lookup rs1065852 rs4244285
  vibe-pgx lookup --db /data/pgx.duckdb rs9923231`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = defaultDBPath()
			}
			return runLookup(cmd.OutOrStdout(), dbPath, args)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB cache file (default: <cache_dir>/pgx.duckdb)")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "summary [flags]",
		Short: "Show the interaction summary exported by analyze --db",
		Args:  usageArgs(cobra.NoArgs),
		Example: `  vibe-pgx analyze genome.txt --db results.duckdb -o /dev/null
  vibe-pgx summary --db results.duckdb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = defaultDBPath()
			}
			return runSummary(cmd.OutOrStdout(), dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB file (default: <cache_dir>/pgx.duckdb)")

	return cmd
}

// openExisting opens a DuckDB file that must already exist.
func openExisting(dbPath string) (*duckdb.Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no database at %s (run vibe-pgx import or analyze --db first): %w", dbPath, err)
	}
	return duckdb.Open(dbPath)
}

func runLookup(out io.Writer, dbPath string, rsids []string) error {
	db, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	w := bufio.NewWriter(out)
	w.WriteString("rsID\tGene\tDrug(s)\tPhenotype_Category\tSignificance\tQualifies\n")
	for _, rsid := range rsids {
		for _, r := range db.Lookup(rsid) {
			values := []string{
				r.RSID,
				r.Gene,
				r.Drugs,
				r.PhenotypeCategory,
				r.Significance,
				strconv.FormatBool(match.Qualifies(r)),
			}
			w.WriteString(strings.Join(values, "\t") + "\n")
		}
	}
	return w.Flush()
}

func runSummary(out io.Writer, dbPath string) error {
	db, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ReadSummary()
	if err != nil {
		return err
	}
	return output.NewSummaryWriter(out).WriteAll(rows)
}
