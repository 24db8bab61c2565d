package genotype

import (
	"fmt"
	"strings"
)

// Input formats understood by LoadFile.
const (
	FormatTwentyThreeAndMe = "23andme"
	FormatVCF              = "vcf"
)

// Load reads every entry from p into a new Store.
func Load(p Parser) (*Store, error) {
	s := NewStore(nil)
	for {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			break
		}
		s.Add(e)
	}
	return s, nil
}

// LoadFile opens path with the parser for format and loads it into a Store.
// An empty format is detected from the file name and content.
func LoadFile(path, format string) (*Store, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	var (
		p   Parser
		err error
	)
	switch format {
	case FormatVCF:
		p, err = NewVCFParser(path)
	case FormatTwentyThreeAndMe:
		p, err = NewParser(path)
	default:
		return nil, fmt.Errorf("unknown genotype format %q", format)
	}
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return Load(p)
}

// DetectFormat detects the genotype file format based on extension or content.
func DetectFormat(path string) string {
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")

	if strings.HasSuffix(lowerPath, ".vcf") {
		return FormatVCF
	}

	// stdin defaults to 23andMe
	if path == "-" {
		return FormatTwentyThreeAndMe
	}

	src, err := openSource(path)
	if err != nil {
		return FormatTwentyThreeAndMe
	}
	defer src.close()

	buf, _ := src.reader.Peek(512)
	if strings.HasPrefix(string(buf), "##fileformat=VCF") || strings.HasPrefix(string(buf), "#CHROM") {
		return FormatVCF
	}

	return FormatTwentyThreeAndMe
}

