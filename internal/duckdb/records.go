package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/allele"
)

// Record is one allele and its annotation properties.
type Record struct {
	Key        allele.Key
	Properties allele.Properties
}

// Write batch-inserts records using the Appender API. Records replace any
// stored record with the same key; within the batch the last record for a
// key wins. Concurrent calls to Write are not supported.
func (s *Store) Write(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	// Deduplicate by primary key, keeping the last occurrence.
	index := make(map[allele.Key]int, len(records))
	deduped := make([]Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.Key]; ok {
			deduped[i] = r
			continue
		}
		index[r.Key] = len(deduped)
		deduped = append(deduped, r)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `CREATE OR REPLACE TABLE staged_alleles (
		chrom VARCHAR, pos BIGINT, ref VARCHAR, alt VARCHAR, properties VARCHAR
	)`); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "staged_alleles")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for _, r := range deduped {
		raw, err := json.Marshal(r.Properties)
		if err != nil {
			appender.Close()
			return fmt.Errorf("encode properties for %s: %w", r.Key, err)
		}
		if err := appender.AppendRow(r.Key.Chrom, r.Key.Pos, r.Key.Ref, r.Key.Alt, string(raw)); err != nil {
			appender.Close()
			return fmt.Errorf("append allele %s: %w", r.Key, err)
		}
	}
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush appender: %w", err)
	}

	if _, err := conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO allele_properties SELECT * FROM staged_alleles`); err != nil {
		return fmt.Errorf("merge staged alleles: %w", err)
	}
	_, err = conn.ExecContext(ctx, `DROP TABLE IF EXISTS staged_alleles`)
	return err
}

// LoadTSV bulk-loads a tab-separated file with a header row and the columns
//
//	chrom  pos  ref  alt  properties
//
// where properties is a JSON object. Gzipped files are read transparently.
// Chromosome names lose any "chr" prefix and alleles are upper-cased.
// Loading is skipped when the file's fingerprint matches the last load of
// the same path; the returned bool reports whether data was loaded.
func (s *Store) LoadTSV(ctx context.Context, path string) (bool, error) {
	fp, err := StatFile(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	prev, ok, err := s.fingerprint(path)
	if err != nil {
		return false, err
	}
	if ok && prev.Matches(fp) {
		s.logger.Info("allele store up to date", zap.String("source", path))
		return false, nil
	}

	before, err := s.Count()
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO allele_properties
		SELECT regexp_replace(chrom, '^chr', '', 'i'), pos, upper(ref), upper(alt), properties
		FROM read_csv('%s', delim='\t', header=true, quote='',
			columns={
				'chrom': 'VARCHAR',
				'pos': 'BIGINT',
				'ref': 'VARCHAR',
				'alt': 'VARCHAR',
				'properties': 'VARCHAR'
			})`, strings.ReplaceAll(path, "'", "''"))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return false, fmt.Errorf("loading allele properties from %s: %w", path, err)
	}

	after, err := s.Count()
	if err != nil {
		return false, err
	}
	fp.Records = after - before
	if err := s.saveFingerprint(fp); err != nil {
		return false, err
	}

	s.logger.Info("loaded allele properties",
		zap.String("source", path),
		zap.Int64("new_alleles", fp.Records),
		zap.Int64("total", after))
	return true, nil
}
