package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/duckdb"
	"github.com/inodb/vibe-pgx/internal/genotype"
	"github.com/inodb/vibe-pgx/internal/match"
	"github.com/inodb/vibe-pgx/internal/network"
	"github.com/inodb/vibe-pgx/internal/output"
	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

// annotationSource names the fingerprint of the cached annotation table.
const annotationSource = "annotations"

type analyzeOptions struct {
	annotations string
	format      string
	topN        int
	summary     string
	dbPath      string
	workers     int
}

func newAnalyzeCmd(verbose *bool) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [flags] <genotype-file>",
		Short: "Build the gene-drug network for a genotype file",
		Long: `Match a 23andMe or VCF genotype file against PharmGKB variant
annotations (var_drug_ann.tsv), keep significant efficacy associations,
and report the genes and drugs with the most connections plus a
per-interaction summary table.`,
		Example: `  vibe-pgx analyze genome.txt --annotations var_drug_ann.tsv
  vibe-pgx analyze sample.vcf --top 10 --summary interactions.tsv
  vibe-pgx analyze genome.txt --db results.duckdb --workers 0
  cat genome.txt | vibe-pgx analyze -`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			opts.annotations = viper.GetString("annotations")
			opts.topN = viper.GetInt("top_n")
			opts.workers = viper.GetInt("workers")
			return runAnalyze(cmd.OutOrStdout(), args[0], opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.annotations, "annotations", "", "PharmGKB variant annotation TSV (var_drug_ann.tsv)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Genotype format: 23andme, vcf (auto-detected if not specified)")
	cmd.Flags().IntVar(&opts.topN, "top", defaultTopN, "Number of genes and drugs to rank")
	cmd.Flags().StringVarP(&opts.summary, "summary", "o", "", "Write the interaction summary TSV here (default: stdout)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "DuckDB file for the annotation cache and summary export")
	cmd.Flags().IntVar(&opts.workers, "workers", defaultWorkers, "Matcher workers (1 = sequential, 0 = all CPUs)")

	viper.BindPFlag("annotations", cmd.Flags().Lookup("annotations"))
	viper.BindPFlag("top_n", cmd.Flags().Lookup("top"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runAnalyze(out io.Writer, genotypePath string, opts analyzeOptions, logger *zap.Logger) error {
	if opts.annotations == "" {
		return &usageError{errors.New("no annotation file: use --annotations or set annotations in ~/.vibe-pgx.yaml")}
	}

	store, err := genotype.LoadFile(genotypePath, opts.format)
	if err != nil {
		return fmt.Errorf("load genotypes: %w", err)
	}
	logger.Info("loaded genotypes", zap.String("path", genotypePath), zap.Int("entries", store.Len()))

	idx, db, err := openAnnotations(opts, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	m := match.NewMatcher()
	m.SetLogger(logger)
	var matches []match.MatchedVariant
	if opts.workers == 1 {
		matches = m.Match(store, idx)
	} else {
		matches = m.ParallelMatch(store, idx, opts.workers)
	}
	if len(matches) == 0 {
		logger.Warn("no significant efficacy associations found for this genotype")
	}

	b := network.NewBuilder()
	b.SetLogger(logger)
	an := network.NewAnalyzer(b.Build(matches))

	stats := an.Stats()
	logger.Info("built interaction network",
		zap.Int("matches", len(matches)),
		zap.Int("genes", stats.Genes),
		zap.Int("drugs", stats.Drugs),
		zap.Int("edges", stats.Edges))

	if err := output.WriteRanking(out, "Top High Impact Genes (Degree Centrality)", "drugs", an.TopImpactGenes(opts.topN)); err != nil {
		return fmt.Errorf("write gene ranking: %w", err)
	}
	fmt.Fprintln(out)
	if err := output.WriteRanking(out, "Top Multi-gene Drugs (Degree Centrality)", "genes", an.TopMultigeneDrugs(opts.topN)); err != nil {
		return fmt.Errorf("write drug ranking: %w", err)
	}

	rows := an.ExportSummary()
	if err := writeSummary(out, opts.summary, rows); err != nil {
		return err
	}
	if opts.summary != "" {
		logger.Info("wrote interaction summary", zap.String("path", opts.summary), zap.Int("rows", len(rows)))
	}

	if db != nil && opts.dbPath != "" {
		if err := db.WriteSummary(rows); err != nil {
			return fmt.Errorf("export summary: %w", err)
		}
		logger.Info("exported interaction summary", zap.String("db", opts.dbPath), zap.Int("rows", len(rows)))
	}

	return nil
}

// openAnnotations returns an in-memory annotation index for opts, read from
// the DuckDB cache when its fingerprint matches the TSV. An explicit --db is
// created if needed and refreshed from the TSV when stale. Without one, the
// default cache is used only if it exists and matches the TSV.
func openAnnotations(opts analyzeOptions, logger *zap.Logger) (*pharmgkb.Index, *duckdb.Store, error) {
	path, err := filepath.Abs(opts.annotations)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve annotation path: %w", err)
	}
	fp, err := duckdb.StatFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("annotation file: %w", err)
	}

	explicit := opts.dbPath != ""
	dbPath := opts.dbPath
	if !explicit {
		if _, err := os.Stat(defaultDBPath()); err == nil {
			dbPath = defaultDBPath()
		}
	}

	var db *duckdb.Store
	if dbPath != "" {
		db, err = duckdb.Open(dbPath)
		if err != nil {
			if explicit {
				return nil, nil, err
			}
			logger.Warn("ignoring annotation cache", zap.String("db", dbPath), zap.Error(err))
			db = nil
		}
	}

	if db != nil {
		db.SetLogger(logger)
		if db.FingerprintValid(annotationSource, fp) {
			records, err := db.LoadAnnotations()
			if err == nil {
				logger.Info("using cached annotations",
					zap.String("db", dbPath), zap.Int("records", len(records)))
				return pharmgkb.NewIndex(records), db, nil
			}
			logger.Warn("reading cached annotations", zap.String("db", dbPath), zap.Error(err))
		}
	}

	records, err := pharmgkb.LoadAnnotations(path)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("load annotations: %w", err)
	}
	logger.Info("loaded annotations", zap.String("path", path), zap.Int("records", len(records)))

	if db != nil && explicit {
		if err := cacheAnnotations(db, records, fp); err != nil {
			logger.Warn("could not cache annotations", zap.String("db", dbPath), zap.Error(err))
		}
	}

	return pharmgkb.NewIndex(records), db, nil
}

// cacheAnnotations stores records in db along with the source fingerprint.
func cacheAnnotations(db *duckdb.Store, records []*pharmgkb.Record, fp duckdb.FileFingerprint) error {
	return db.ReplaceAnnotations(annotationSource, records, fp)
}

// writeSummary writes rows to path, or to out when path is empty.
func writeSummary(out io.Writer, path string, rows []network.SummaryRow) error {
	if path == "" {
		fmt.Fprintln(out)
		if err := output.NewSummaryWriter(out).WriteAll(rows); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	if err := output.NewSummaryWriter(f).WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	return f.Close()
}
