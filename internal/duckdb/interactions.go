package duckdb

import (
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-pgx/internal/network"
)

// WriteSummary replaces the interactions table with rows, keeping their
// order. rsIDs are stored comma-joined.
func (s *Store) WriteSummary(rows []network.SummaryRow) error {
	if _, err := s.db.Exec(`DELETE FROM interactions`); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	return s.appendRows("interactions", func(a *goduckdb.Appender) error {
		for i, r := range rows {
			if err := a.AppendRow(
				int64(i), r.Gene, r.Drug, int64(r.InteractionCount), strings.Join(r.RSIDs, ","),
			); err != nil {
				return fmt.Errorf("append interaction: %w", err)
			}
		}
		return nil
	})
}

// ReadSummary returns the stored interaction rows in their original order.
func (s *Store) ReadSummary() ([]network.SummaryRow, error) {
	rows, err := s.db.Query(`SELECT gene, drug, interaction_count, rsids FROM interactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var summary []network.SummaryRow
	for rows.Next() {
		var (
			r     network.SummaryRow
			count int64
			rsids string
		)
		if err := rows.Scan(&r.Gene, &r.Drug, &count, &rsids); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		r.InteractionCount = int(count)
		r.RSIDs = []string{}
		if rsids != "" {
			r.RSIDs = strings.Split(rsids, ",")
		}
		summary = append(summary, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("interaction rows: %w", err)
	}
	return summary, nil
}
