package duckdb

import (
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

const annotationColumns = `rsid, gene, drugs, phenotype_category, significance, notes, sentence, alleles`

// WriteAnnotations replaces the cached annotations with records, keeping
// their order.
func (s *Store) WriteAnnotations(records []*pharmgkb.Record) error {
	if _, err := s.db.Exec(`DELETE FROM annotations`); err != nil {
		return fmt.Errorf("clear annotations: %w", err)
	}
	s.cache.Purge()

	if len(records) == 0 {
		return nil
	}

	return s.appendRows("annotations", func(a *goduckdb.Appender) error {
		for i, r := range records {
			if err := a.AppendRow(
				int64(i), r.RSID, r.Gene, r.Drugs, r.PhenotypeCategory,
				r.Significance, r.Notes, r.Sentence, r.Alleles,
			); err != nil {
				return fmt.Errorf("append annotation: %w", err)
			}
		}
		return nil
	})
}

// ReplaceAnnotations caches records under the fingerprint name. The old
// fingerprint is cleared before any rows change, so a failed write leaves
// no fingerprint vouching for a partial table.
func (s *Store) ReplaceAnnotations(name string, records []*pharmgkb.Record, fp FileFingerprint) error {
	if err := s.ClearFingerprint(name); err != nil {
		return err
	}
	if err := s.WriteAnnotations(records); err != nil {
		return err
	}
	return s.SaveFingerprint(name, fp)
}

// LoadAnnotations returns all cached annotations in their original order.
func (s *Store) LoadAnnotations() ([]*pharmgkb.Record, error) {
	rows, err := s.db.Query(`SELECT ` + annotationColumns + ` FROM annotations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	var records []*pharmgkb.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("annotation rows: %w", err)
	}
	return records, nil
}

// AnnotationCount returns the number of cached annotations.
func (s *Store) AnnotationCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM annotations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count annotations: %w", err)
	}
	return count, nil
}

// Lookup returns the cached annotations for an rsID in original order, or
// nil. Query failures are logged and treated as a miss. Results are kept in
// an LRU cache; Lookup is safe for concurrent use.
func (s *Store) Lookup(rsid string) []*pharmgkb.Record {
	if records, ok := s.cache.Get(rsid); ok {
		return records
	}

	s.lookupOnce.Do(func() {
		s.lookupPS, s.lookupErr = s.db.Prepare(
			`SELECT ` + annotationColumns + ` FROM annotations WHERE rsid = ? ORDER BY seq`,
		)
	})
	if s.lookupErr != nil {
		s.logger.Warn("prepare annotation lookup", zap.Error(s.lookupErr))
		return nil
	}

	rows, err := s.lookupPS.Query(rsid)
	if err != nil {
		s.logger.Warn("annotation lookup", zap.String("rsid", rsid), zap.Error(err))
		return nil
	}
	defer rows.Close()

	var records []*pharmgkb.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			s.logger.Warn("annotation lookup", zap.String("rsid", rsid), zap.Error(err))
			return nil
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("annotation lookup", zap.String("rsid", rsid), zap.Error(err))
		return nil
	}

	s.cache.Add(rsid, records)
	return records
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*pharmgkb.Record, error) {
	var r pharmgkb.Record
	if err := row.Scan(
		&r.RSID, &r.Gene, &r.Drugs, &r.PhenotypeCategory,
		&r.Significance, &r.Notes, &r.Sentence, &r.Alleles,
	); err != nil {
		return nil, fmt.Errorf("scan annotation: %w", err)
	}
	return &r, nil
}
