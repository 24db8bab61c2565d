package genotype

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// VCFParser reads genotype entries for the first sample of a VCF file.
// Records without an rs identifier in the ID column are skipped.
type VCFParser struct {
	src        *source
	lineNumber int
	sample     string
}

// NewVCFParser creates a VCF genotype parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewVCFParser(path string) (*VCFParser, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}

	p := &VCFParser{src: src}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewVCFParserFromReader creates a VCF genotype parser from an io.Reader.
func NewVCFParserFromReader(r io.Reader) (*VCFParser, error) {
	p := &VCFParser{src: &source{reader: bufio.NewReader(r)}}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader skips meta lines and reads the sample name from #CHROM.
func (p *VCFParser) parseHeader() error {
	for {
		line, err := p.src.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			fields := strings.Split(line, "\t")
			if len(fields) < 10 {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "VCF has no sample columns",
				}
			}
			p.sample = fields[9]
			return nil
		}

		return &ParseError{
			Line:    p.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &ParseError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Sample returns the name of the sample whose genotypes are read.
func (p *VCFParser) Sample() string {
	return p.sample
}

// Next reads the next genotype entry.
// Returns nil, nil when there are no more entries.
func (p *VCFParser) Next() (*Entry, error) {
	for {
		line, err := p.src.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		e, perr := p.parseLine(line)
		if perr != nil {
			return nil, perr
		}
		if e != nil {
			return e, nil
		}
	}
}

// parseLine converts a VCF data line into an Entry.
// Returns nil, nil for records without an rsID.
func (p *VCFParser) parseLine(line string) (*Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 10 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 10 columns, found %d", len(fields)),
		}
	}

	rsid := firstRSID(fields[2])
	if rsid == "" {
		return nil, nil
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	alleles := append([]string{fields[3]}, strings.Split(fields[4], ",")...)
	gt, err := callAlleles(fields[8], fields[9], alleles)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: err.Error(),
		}
	}

	return &Entry{
		RSID:     rsid,
		Chrom:    fields[0],
		Pos:      pos,
		Genotype: gt,
	}, nil
}

// firstRSID returns the first rs-prefixed identifier in a VCF ID field.
func firstRSID(id string) string {
	for _, part := range strings.Split(id, ";") {
		if strings.HasPrefix(part, "rs") {
			return part
		}
	}
	return ""
}

// callAlleles translates the GT subfield of a sample column into allele
// letters, e.g. "0/1" with REF=A ALT=G becomes "AG". Missing alleles are "-".
// Multi-base alleles are joined with "/".
func callAlleles(format, sample string, alleles []string) (string, error) {
	gtIdx := -1
	for i, key := range strings.Split(format, ":") {
		if key == "GT" {
			gtIdx = i
			break
		}
	}
	if gtIdx < 0 {
		return "", fmt.Errorf("FORMAT has no GT field: %s", format)
	}

	values := strings.Split(sample, ":")
	if gtIdx >= len(values) {
		return "--", nil
	}

	calls := strings.FieldsFunc(values[gtIdx], func(r rune) bool {
		return r == '/' || r == '|'
	})

	out := make([]string, 0, len(calls))
	singleBase := true
	for _, c := range calls {
		if c == "." {
			out = append(out, "-")
			continue
		}
		idx, err := strconv.Atoi(c)
		if err != nil || idx < 0 || idx >= len(alleles) {
			return "", fmt.Errorf("invalid GT allele: %s", c)
		}
		if len(alleles[idx]) != 1 {
			singleBase = false
		}
		out = append(out, alleles[idx])
	}

	if singleBase {
		return strings.Join(out, ""), nil
	}
	return strings.Join(out, "/"), nil
}

// LineNumber returns the current line number being processed.
func (p *VCFParser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *VCFParser) Close() error {
	return p.src.close()
}
