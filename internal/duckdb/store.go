// Package duckdb stores allele annotation records in DuckDB. Each record is
// the JSON object of annotation properties for one allele.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/allele"
)

// Store manages a DuckDB connection holding allele properties.
type Store struct {
	db       *sqlx.DB
	path     string
	lookupPS *sqlx.Stmt
	logger   *zap.Logger
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sqlx.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	ps, err := db.Preparex(`SELECT properties FROM allele_properties
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare lookup: %w", err)
	}
	s.lookupPS = ps

	return s, nil
}

// SetLogger sets the logger for load progress.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS allele_properties (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		properties VARCHAR,
		PRIMARY KEY (chrom, pos, ref, alt)
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS store_metadata (
		source VARCHAR PRIMARY KEY,
		size BIGINT,
		mod_time BIGINT,
		records BIGINT
	)`)
	return err
}

// Lookup returns the properties recorded for key. A missing row is not an
// error. Safe for concurrent use.
func (s *Store) Lookup(key allele.Key) (allele.Properties, bool, error) {
	var raw string
	err := s.lookupPS.Get(&raw, key.Chrom, key.Pos, key.Ref, key.Alt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query allele %s: %w", key, err)
	}

	props, err := decodeProperties(raw)
	if err != nil {
		return nil, false, fmt.Errorf("allele %s: %w", key, err)
	}
	return props, true, nil
}

// Count returns the number of stored alleles.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM allele_properties"); err != nil {
		return 0, fmt.Errorf("count allele rows: %w", err)
	}
	return n, nil
}

// Loaded returns true if the store has data.
func (s *Store) Loaded() bool {
	n, err := s.Count()
	return err == nil && n > 0
}

// Clear removes all records and load metadata.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM allele_properties"); err != nil {
		return fmt.Errorf("clear allele rows: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM store_metadata"); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	return nil
}

// PreloadToMemory copies every record into an in-memory store so lookups
// avoid database round trips.
func (s *Store) PreloadToMemory() (*allele.MapStore, error) {
	mem := allele.NewMapStore()
	err := s.Each(context.Background(), func(r Record) error {
		mem.Put(r.Key, r.Properties)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("preload: %w", err)
	}

	s.logger.Info("preloaded allele store", zap.Int("alleles", mem.Len()))
	return mem, nil
}

// Each calls fn for every stored record, stopping at the first error.
func (s *Store) Each(ctx context.Context, fn func(Record) error) error {
	rows, err := s.db.QueryxContext(ctx, "SELECT chrom, pos, ref, alt, properties FROM allele_properties")
	if err != nil {
		return fmt.Errorf("query alleles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r row
		if err := rows.StructScan(&r); err != nil {
			return fmt.Errorf("scan allele row: %w", err)
		}
		props, err := decodeProperties(r.Properties)
		if err != nil {
			return fmt.Errorf("allele %s: %w", r.key(), err)
		}
		if err := fn(Record{Key: r.key(), Properties: props}); err != nil {
			return err
		}
	}
	return rows.Err()
}

type row struct {
	Chrom      string `db:"chrom"`
	Pos        int64  `db:"pos"`
	Ref        string `db:"ref"`
	Alt        string `db:"alt"`
	Properties string `db:"properties"`
}

func (r row) key() allele.Key {
	return allele.Key{Chrom: r.Chrom, Pos: r.Pos, Ref: r.Ref, Alt: r.Alt}
}

func decodeProperties(raw string) (allele.Properties, error) {
	var props allele.Properties
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return props, nil
}
