package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/duckdb"
	"github.com/inodb/vibe-filter/internal/elastic"
)

func newLoadCmd() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "load [flags] <alleles.tsv>...",
		Short: "Load annotation records into the allele store",
		Long: `Load tab-separated annotation records into the configured store.

Each file must have a header with the columns chrom, pos, ref, alt and
properties, where properties is a JSON object keyed by source code, e.g.
{"KG":0.7,"TOPMED":0.05,"REVEL":0.93}. Files may be gzipped.

For the duckdb backend, files that have not changed since their last load are
skipped. For the elasticsearch backend, each record is indexed as one document
whose id is the allele key.`,
		Example: `  vibe-filter load alleles.tsv.gz
  vibe-filter load --clear gnomad.tsv clinvar.tsv
  VIBE_FILTER_STORE_BACKEND=elasticsearch vibe-filter load alleles.tsv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch backend := strings.ToLower(viper.GetString("store.backend")); backend {
			case "duckdb":
				return loadDuckDB(cmd.Context(), viper.GetString("store.path"), args, clearFirst)
			case "elasticsearch", "es":
				return loadElasticsearch(cmd.Context(), args)
			default:
				return fmt.Errorf("unknown store backend %q (want duckdb or elasticsearch)", backend)
			}
		},
	}

	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Remove existing records before loading (duckdb only)")
	return cmd
}

func loadDuckDB(ctx context.Context, path string, files []string, clearFirst bool) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return fmt.Errorf("opening allele store: %w", err)
	}
	defer store.Close()
	store.SetLogger(logger)

	if clearFirst {
		if err := store.Clear(); err != nil {
			return err
		}
	}

	for _, f := range files {
		loaded, err := store.LoadTSV(ctx, f)
		if err != nil {
			return err
		}
		if !loaded {
			fmt.Printf("  %s unchanged, skipping\n", f)
		}
	}

	n, err := store.Count()
	if err != nil {
		return err
	}
	fmt.Printf("%s now holds %d alleles\n", path, n)
	return nil
}

// loadElasticsearch stages files in an in-memory DuckDB so the TSV parsing
// and key normalisation match the duckdb backend, then indexes every record.
func loadElasticsearch(ctx context.Context, files []string) error {
	es, err := elastic.NewStore(elasticConfig())
	if err != nil {
		return err
	}
	es.SetLogger(logger)
	if err := es.Ping(ctx); err != nil {
		return err
	}

	staging, err := duckdb.Open("")
	if err != nil {
		return fmt.Errorf("opening staging store: %w", err)
	}
	defer staging.Close()
	staging.SetLogger(logger)

	for _, f := range files {
		if _, err := staging.LoadTSV(ctx, f); err != nil {
			return err
		}
	}

	start := time.Now()
	var indexed int
	err = staging.Each(ctx, func(r duckdb.Record) error {
		if err := es.Put(ctx, r.Key, r.Properties, false); err != nil {
			return err
		}
		indexed++
		if indexed%10000 == 0 {
			logger.Info("indexing", zap.Int("documents", indexed))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("indexing into %s: %w", es.Index(), err)
	}

	fmt.Printf("Indexed %d alleles into %s in %s\n", indexed, es.Index(), time.Since(start).Round(time.Millisecond))
	return nil
}
