package pharmgkb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// PharmGKB var_drug_ann.tsv column names.
const (
	ColVariant           = "Variant/Haplotypes"
	ColGene              = "Gene"
	ColDrugs             = "Drug(s)"
	ColPhenotypeCategory = "Phenotype Category"
	ColSignificance      = "Significance"
	ColNotes             = "Notes"
	ColSentence          = "Sentence"
	ColAlleles           = "Alleles"
)

var rsidPattern = regexp.MustCompile(`rs[0-9]+`)

// columnIndices holds the header positions of known columns; -1 if absent.
type columnIndices struct {
	variant, gene, drugs, phenotypeCategory, significance, notes, sentence, alleles int
}

// LoadAnnotations loads a PharmGKB variant annotation TSV file.
// Supports both plain and gzipped files.
func LoadAnnotations(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		return ReadAnnotations(gz)
	}

	return ReadAnnotations(br)
}

// ReadAnnotations parses PharmGKB annotation TSV data from r. The header
// must contain a Variant/Haplotypes column; other columns are optional.
// Rows whose Variant/Haplotypes field has no rsID are dropped.
func ReadAnnotations(r io.Reader) ([]*Record, error) {
	scanner := bufio.NewScanner(r)
	// Sentence and Notes fields can be long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading annotation header: %w", err)
		}
		return nil, &ParseError{Line: 1, Message: "empty file"}
	}

	cols := parseHeader(scanner.Text())
	if cols.variant < 0 {
		return nil, &ParseError{Line: 1, Message: fmt.Sprintf("missing %q column", ColVariant)}
	}

	var records []*Record
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")

		rsid := rsidPattern.FindString(field(fields, cols.variant))
		if rsid == "" {
			continue
		}

		records = append(records, &Record{
			RSID:              rsid,
			Gene:              field(fields, cols.gene),
			Drugs:             field(fields, cols.drugs),
			PhenotypeCategory: field(fields, cols.phenotypeCategory),
			Significance:      field(fields, cols.significance),
			Notes:             field(fields, cols.notes),
			Sentence:          field(fields, cols.sentence),
			Alleles:           field(fields, cols.alleles),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading annotation file: %w", err)
	}

	return records, nil
}

func parseHeader(line string) columnIndices {
	cols := columnIndices{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, name := range strings.Split(strings.TrimRight(line, "\r"), "\t") {
		switch strings.TrimSpace(name) {
		case ColVariant:
			cols.variant = i
		case ColGene:
			cols.gene = i
		case ColDrugs:
			cols.drugs = i
		case ColPhenotypeCategory:
			cols.phenotypeCategory = i
		case ColSignificance:
			cols.significance = i
		case ColNotes:
			cols.notes = i
		case ColSentence:
			cols.sentence = i
		case ColAlleles:
			cols.alleles = i
		}
	}
	return cols
}

// field returns fields[idx] without a trailing carriage return, or "" when
// the column is absent or the row is short.
func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimRight(fields[idx], "\r")
}

// ParseError represents an error during annotation parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation parse error at line %d: %s", e.Line, e.Message)
}
