package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// SaveFingerprint records the source file a cached table was built from.
func (s *Store) SaveFingerprint(name string, fp FileFingerprint) error {
	if err := s.ClearFingerprint(name); err != nil {
		return err
	}
	if _, err := s.db.Exec(
		`INSERT INTO source_files (name, path, size, mod_time) VALUES (?, ?, ?, ?)`,
		name, fp.Path, fp.Size, fp.ModTime.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("save fingerprint: %w", err)
	}
	return nil
}

// ClearFingerprint forgets the source file of the cached table called name,
// so FingerprintValid fails until SaveFingerprint runs again.
func (s *Store) ClearFingerprint(name string) error {
	if _, err := s.db.Exec(`DELETE FROM source_files WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clear fingerprint: %w", err)
	}
	return nil
}

// FingerprintValid reports whether the cached table called name was built
// from the same path with the same size and modification time as fp.
func (s *Store) FingerprintValid(name string, fp FileFingerprint) bool {
	var (
		path    string
		size    int64
		modTime string
	)
	err := s.db.QueryRow(
		`SELECT path, size, mod_time FROM source_files WHERE name = ?`, name,
	).Scan(&path, &size, &modTime)
	if err != nil {
		return false
	}
	return path == fp.Path &&
		size == fp.Size &&
		modTime == fp.ModTime.UTC().Format(time.RFC3339Nano)
}
