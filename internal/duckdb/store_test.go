package duckdb

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-pgx/internal/network"
	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecords() []*pharmgkb.Record {
	return []*pharmgkb.Record{
		{RSID: "rs1065852", Gene: "CYP2D6", Drugs: "tamoxifen, codeine", PhenotypeCategory: "Efficacy", Significance: "yes", Alleles: "A"},
		{RSID: "rs4244285", Gene: "CYP2C19", Drugs: "clopidogrel", PhenotypeCategory: "Efficacy", Significance: "yes"},
		{RSID: "rs1065852", Gene: "CYP2D6", Drugs: "paroxetine", PhenotypeCategory: "Toxicity", Significance: "no", Notes: "n", Sentence: "s"},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	count, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestWriteAndLoadAnnotations(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteAnnotations(testRecords()))

	count, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	loaded, err := s.LoadAnnotations()
	require.NoError(t, err)
	assert.Equal(t, testRecords(), loaded)
}

func TestWriteAnnotations_Replaces(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteAnnotations(testRecords()))
	require.Len(t, s.Lookup("rs4244285"), 1)

	require.NoError(t, s.WriteAnnotations(testRecords()[:1]))

	count, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Nil(t, s.Lookup("rs4244285"), "stale cache entry after rewrite")
}

func TestLookup(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteAnnotations(testRecords()))

	got := s.Lookup("rs1065852")
	require.Len(t, got, 2)
	assert.Equal(t, "tamoxifen, codeine", got[0].Drugs)
	assert.Equal(t, "paroxetine", got[1].Drugs)

	// Second call is served from the cache
	assert.Equal(t, got, s.Lookup("rs1065852"))

	assert.Nil(t, s.Lookup("rs0"))
}

func TestLookup_Concurrent(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteAnnotations(testRecords()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, s.Lookup("rs1065852"), 2)
			assert.Len(t, s.Lookup("rs4244285"), 1)
		}()
	}
	wg.Wait()
}

func TestWriteAndReadSummary(t *testing.T) {
	s := openInMemory(t)

	rows := []network.SummaryRow{
		{Gene: "CYP2D6", Drug: "tamoxifen", InteractionCount: 2, RSIDs: []string{"rs1065852", "rs3892097"}},
		{Gene: "CYP2C19", Drug: "clopidogrel", InteractionCount: 1, RSIDs: []string{"rs4244285"}},
		{Gene: "VKORC1", Drug: "warfarin", InteractionCount: 0, RSIDs: []string{}},
	}
	require.NoError(t, s.WriteSummary(rows))

	got, err := s.ReadSummary()
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// Rewriting replaces rather than appends
	require.NoError(t, s.WriteSummary(rows[:1]))
	got, err = s.ReadSummary()
	require.NoError(t, err)
	assert.Equal(t, rows[:1], got)

	require.NoError(t, s.WriteSummary(nil))
	got, err = s.ReadSummary()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFingerprint(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "annotations.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Variant/Haplotypes\nrs1\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(23), fp.Size)

	assert.False(t, s.FingerprintValid("annotations", fp))

	require.NoError(t, s.SaveFingerprint("annotations", fp))
	assert.True(t, s.FingerprintValid("annotations", fp))
	assert.False(t, s.FingerprintValid("other", fp))

	changed := fp
	changed.ModTime = fp.ModTime.Add(time.Second)
	assert.False(t, s.FingerprintValid("annotations", changed))

	changed = fp
	changed.Size++
	assert.False(t, s.FingerprintValid("annotations", changed))

	changed = fp
	changed.Path = path + ".other"
	assert.False(t, s.FingerprintValid("annotations", changed))

	// Saving again overwrites
	require.NoError(t, s.SaveFingerprint("annotations", changed))
	assert.True(t, s.FingerprintValid("annotations", changed))
}

func TestReplaceAnnotations(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Path: "/data/a.tsv", Size: 10, ModTime: time.Unix(1700000000, 0)}

	require.NoError(t, s.ReplaceAnnotations("annotations", testRecords(), fp))
	assert.True(t, s.FingerprintValid("annotations", fp))

	loaded, err := s.LoadAnnotations()
	require.NoError(t, err)
	assert.Equal(t, testRecords(), loaded)
}

func TestReplaceAnnotations_FailedWriteClearsFingerprint(t *testing.T) {
	s := openInMemory(t)
	old := FileFingerprint{Path: "/data/old.tsv", Size: 10, ModTime: time.Unix(1700000000, 0)}
	require.NoError(t, s.ReplaceAnnotations("annotations", testRecords(), old))

	// Break the table so the rewrite fails after the fingerprint is cleared
	_, err := s.db.Exec(`DROP TABLE annotations`)
	require.NoError(t, err)

	next := FileFingerprint{Path: "/data/new.tsv", Size: 20, ModTime: time.Unix(1700000100, 0)}
	assert.Error(t, s.ReplaceAnnotations("annotations", testRecords(), next))

	assert.False(t, s.FingerprintValid("annotations", old))
	assert.False(t, s.FingerprintValid("annotations", next))
}

func TestClearFingerprint(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Path: "/data/a.tsv", Size: 10, ModTime: time.Unix(1700000000, 0)}

	require.NoError(t, s.ClearFingerprint("annotations"))
	require.NoError(t, s.SaveFingerprint("annotations", fp))
	require.NoError(t, s.ClearFingerprint("annotations"))
	assert.False(t, s.FingerprintValid("annotations", fp))
}

func TestStatFile_Missing(t *testing.T) {
	_, err := StatFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
