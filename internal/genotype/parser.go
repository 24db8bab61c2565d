package genotype

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser is the interface for readers that produce genotype entries.
// Both the 23andMe and VCF parsers implement this interface.
type Parser interface {
	// Next reads the next entry.
	// Returns nil, nil when there are no more entries.
	Next() (*Entry, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// source wraps a possibly gzipped input file.
type source struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
}

// openSource opens path for reading, transparently decompressing gzip input.
// A path of "-" reads from stdin.
func openSource(path string) (*source, error) {
	if path == "-" {
		return &source{reader: bufio.NewReader(os.Stdin)}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genotype file: %w", err)
	}

	s := &source{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read genotype header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek genotype file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		s.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		s.reader = bufio.NewReader(s.gzipReader)
	} else {
		s.reader = bufio.NewReader(file)
	}

	return s, nil
}

func (s *source) close() error {
	if s.gzipReader != nil {
		s.gzipReader.Close()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// TwentyThreeAndMeParser reads entries from a 23andMe raw data file.
//
// The format is tab-separated with "#" comment lines:
//
//	rsid	chromosome	position	genotype
type TwentyThreeAndMeParser struct {
	src        *source
	lineNumber int
}

// NewParser creates a 23andMe parser for the given file.
// Supports both plain and gzipped files.
func NewParser(path string) (*TwentyThreeAndMeParser, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	return &TwentyThreeAndMeParser{src: src}, nil
}

// NewParserFromReader creates a 23andMe parser from an io.Reader.
func NewParserFromReader(r io.Reader) *TwentyThreeAndMeParser {
	return &TwentyThreeAndMeParser{src: &source{reader: bufio.NewReader(r)}}
}

// Next reads the next genotype entry, skipping comments and blank lines.
// Returns nil, nil when there are no more entries.
func (p *TwentyThreeAndMeParser) Next() (*Entry, error) {
	for {
		line, err := p.src.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read genotype line: %w", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

func (p *TwentyThreeAndMeParser) parseLine(line string) (*Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 4 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[2]),
		}
	}

	return &Entry{
		RSID:     strings.TrimSpace(fields[0]),
		Chrom:    strings.TrimSpace(fields[1]),
		Pos:      pos,
		Genotype: strings.TrimSpace(fields[3]),
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *TwentyThreeAndMeParser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *TwentyThreeAndMeParser) Close() error {
	return p.src.close()
}

// ParseError represents an error during genotype parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("genotype parse error at line %d: %s", e.Line, e.Message)
}
