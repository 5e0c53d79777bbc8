package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a loaded source file.
type FileFingerprint struct {
	Path    string    `db:"source"`
	Size    int64     `db:"size"`
	ModTime time.Time `db:"-"`
	Records int64     `db:"records"`

	ModTimeNanos int64 `db:"mod_time"`
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:         path,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		ModTimeNanos: info.ModTime().UnixNano(),
	}, nil
}

// Matches reports whether two fingerprints describe the same file contents.
func (f FileFingerprint) Matches(other FileFingerprint) bool {
	return f.Path == other.Path && f.Size == other.Size && f.ModTimeNanos == other.ModTimeNanos
}

func (s *Store) fingerprint(path string) (FileFingerprint, bool, error) {
	var fp FileFingerprint
	err := s.db.Get(&fp, "SELECT source, size, mod_time, records FROM store_metadata WHERE source=?", path)
	if errors.Is(err, sql.ErrNoRows) {
		return FileFingerprint{}, false, nil
	}
	if err != nil {
		return FileFingerprint{}, false, fmt.Errorf("read metadata for %s: %w", path, err)
	}
	fp.ModTime = time.Unix(0, fp.ModTimeNanos)
	return fp, true, nil
}

func (s *Store) saveFingerprint(fp FileFingerprint) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO store_metadata (source, size, mod_time, records)
		VALUES (?, ?, ?, ?)`, fp.Path, fp.Size, fp.ModTimeNanos, fp.Records); err != nil {
		return fmt.Errorf("save metadata for %s: %w", fp.Path, err)
	}
	return nil
}

// Sources returns the fingerprints of every file loaded into the store.
func (s *Store) Sources() ([]FileFingerprint, error) {
	var fps []FileFingerprint
	if err := s.db.Select(&fps, "SELECT source, size, mod_time, records FROM store_metadata ORDER BY source"); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	for i := range fps {
		fps[i].ModTime = time.Unix(0, fps[i].ModTimeNanos)
	}
	return fps, nil
}
