// Package output provides interaction network output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-pgx/internal/network"
)

// SummaryWriter writes network summary rows in tab-delimited format.
type SummaryWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewSummaryWriter creates a new tab-delimited summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"Gene",
			"Drug",
			"Interaction_Count",
			"rsIDs",
		},
	}
}

// WriteHeader writes the header line.
func (sw *SummaryWriter) WriteHeader() error {
	_, err := sw.w.WriteString(strings.Join(sw.columns, "\t") + "\n")
	return err
}

// Write writes a single summary row. rsIDs are comma-joined.
func (sw *SummaryWriter) Write(row network.SummaryRow) error {
	values := []string{
		row.Gene,
		row.Drug,
		strconv.Itoa(row.InteractionCount),
		strings.Join(row.RSIDs, ","),
	}
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every row, then flushes.
func (sw *SummaryWriter) WriteAll(rows []network.SummaryRow) error {
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := sw.Write(row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SummaryWriter) Flush() error {
	return sw.w.Flush()
}
