package genotype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = `##fileformat=VCFv4.2
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE1
22	42130692	rs1065852	G	A	.	PASS	.	GT	0/1
12	21178615	rs4149056	T	C	.	PASS	.	GT:DP	1|1:30
1	100	.	A	T	.	PASS	.	GT	0/1
10	94781859	rs4244285;COSV1	G	A,C	.	PASS	.	GT	./2
7	117559590	rs113993960	ATCT	A	.	PASS	.	GT	0/1
`

func readAllVCF(t *testing.T, input string) []*Entry {
	t.Helper()
	p, err := NewVCFParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	var entries []*Entry
	for {
		e, err := p.Next()
		require.NoError(t, err)
		if e == nil {
			break
		}
		entries = append(entries, e)
	}
	return entries
}

func TestVCFParser_Genotypes(t *testing.T) {
	entries := readAllVCF(t, testVCF)

	// The record without an rsID is skipped.
	require.Len(t, entries, 4)

	tests := []struct {
		rsid     string
		chrom    string
		pos      int64
		genotype string
	}{
		{"rs1065852", "22", 42130692, "GA"},
		{"rs4149056", "12", 21178615, "CC"},
		{"rs4244285", "10", 94781859, "-C"},
		{"rs113993960", "7", 117559590, "ATCT/A"},
	}
	for i, tt := range tests {
		t.Run(tt.rsid, func(t *testing.T) {
			e := entries[i]
			assert.Equal(t, tt.rsid, e.RSID)
			assert.Equal(t, tt.chrom, e.Chrom)
			assert.Equal(t, tt.pos, e.Pos)
			assert.Equal(t, tt.genotype, e.Genotype)
		})
	}
}

func TestVCFParser_Sample(t *testing.T) {
	p, err := NewVCFParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE1", p.Sample())
}

func TestVCFParser_NoSamples(t *testing.T) {
	input := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	_, err := NewVCFParserFromReader(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sample columns")
}

func TestVCFParser_MissingHeader(t *testing.T) {
	_, err := NewVCFParserFromReader(strings.NewReader("22\t100\trs1\tA\tG\t.\tPASS\t.\tGT\t0/1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected #CHROM header line")
}

func TestVCFParser_InvalidGT(t *testing.T) {
	input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"22\t100\trs1\tA\tG\t.\tPASS\t.\tGT\t0/5\n"
	p, err := NewVCFParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	_, err = p.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid GT allele")
}

func TestDetectFormat(t *testing.T) {
	vcfByContent := writeFile(t, "sample.txt", testVCF)
	genome := writeFile(t, "genome.txt", test23andMe)

	tests := []struct {
		path string
		want string
	}{
		{"sample.vcf", FormatVCF},
		{"sample.vcf.gz", FormatVCF},
		{"-", FormatTwentyThreeAndMe},
		{vcfByContent, FormatVCF},
		{genome, FormatTwentyThreeAndMe},
		{"/nonexistent/file.txt", FormatTwentyThreeAndMe},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestLoadFile_VCF(t *testing.T) {
	path := writeFile(t, "sample.vcf", testVCF)

	store, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 4, store.Len())

	e, ok := store.Lookup("rs4149056")
	require.True(t, ok)
	assert.Equal(t, "CC", e.Genotype)
}
