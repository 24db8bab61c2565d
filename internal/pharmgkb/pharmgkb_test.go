package pharmgkb

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Small fixture in PharmGKB var_drug_ann.tsv layout (subset of columns).
const testTSV = "Variant Annotation ID\tVariant/Haplotypes\tGene\tDrug(s)\tPMID\tPhenotype Category\tSignificance\tNotes\tSentence\tAlleles\n" +
	"1451\trs1065852\tCYP2D6\ttamoxifen\t123\tEfficacy\tyes\tnote a\tAllele A is associated with...\tA\n" +
	"1452\tCYP2D6*4\tCYP2D6\tcodeine\t124\tEfficacy\tyes\t\t\t\n" +
	"1453\trs4149056\tSLCO1B1\tsimvastatin\t125\tToxicity\tyes\t\tC allele...\tC\n" +
	"1454\trs1065852, rs3892097\tCYP2D6\tcodeine, tramadol\t126\tEfficacy\tno\t\t\tG\n" +
	"1455\trs9923231\tVKORC1\n"

func TestIndex_Lookup(t *testing.T) {
	a := &Record{RSID: "rs1", Gene: "CYP2D6"}
	b := &Record{RSID: "rs2", Gene: "SLCO1B1"}
	c := &Record{RSID: "rs1", Gene: "CYP2C19"}
	idx := NewIndex([]*Record{a, b, c})

	got := idx.Lookup("rs1")
	require.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Same(t, c, got[1])

	assert.Empty(t, idx.Lookup("rs404"))
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []*Record{a, b, c}, idx.Records())
}

func TestIndex_Empty(t *testing.T) {
	idx := NewIndex(nil)
	assert.Nil(t, idx.Lookup("rs1"))
	assert.Equal(t, 0, idx.Len())
}

func TestReadAnnotations(t *testing.T) {
	records, err := ReadAnnotations(strings.NewReader(testTSV))
	require.NoError(t, err)

	// The star-allele row has no rsID and is dropped.
	require.Len(t, records, 4)

	assert.Equal(t, &Record{
		RSID:              "rs1065852",
		Gene:              "CYP2D6",
		Drugs:             "tamoxifen",
		PhenotypeCategory: "Efficacy",
		Significance:      "yes",
		Notes:             "note a",
		Sentence:          "Allele A is associated with...",
		Alleles:           "A",
	}, records[0])

	// Only the first rsID of a multi-variant row is used.
	assert.Equal(t, "rs1065852", records[2].RSID)
	assert.Equal(t, "codeine, tramadol", records[2].Drugs)

	// Short rows default missing fields to empty strings.
	assert.Equal(t, &Record{RSID: "rs9923231", Gene: "VKORC1"}, records[3])
}

func TestReadAnnotations_MissingOptionalColumns(t *testing.T) {
	input := "Variant/Haplotypes\tGene\n" + "rs1\tCYP2C9\n"
	records, err := ReadAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CYP2C9", records[0].Gene)
	assert.Empty(t, records[0].Drugs)
	assert.Empty(t, records[0].Significance)
}

func TestReadAnnotations_CRLF(t *testing.T) {
	input := "Variant/Haplotypes\tGene\tSignificance\r\n" + "rs1\tCYP2C9\tyes\r\n"
	records, err := ReadAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "yes", records[0].Significance)
}

func TestReadAnnotations_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "empty file"},
		{"no variant column", "Gene\tDrug(s)\nCYP2D6\tcodeine\n", "missing \"Variant/Haplotypes\" column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAnnotations(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Contains(t, perr.Message, tt.msg)
		})
	}
}

func TestLoadAnnotations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var_drug_ann.tsv")
	require.NoError(t, os.WriteFile(path, []byte(testTSV), 0644))

	records, err := LoadAnnotations(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestLoadAnnotations_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var_drug_ann.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testTSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := LoadAnnotations(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestLoadAnnotations_NotFound(t *testing.T) {
	_, err := LoadAnnotations("/nonexistent/var_drug_ann.tsv")
	assert.Error(t, err)
}
