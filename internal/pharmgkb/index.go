// Package pharmgkb provides PharmGKB variant drug annotation loading and
// lookup by rsID.
package pharmgkb

// Record holds one PharmGKB variant annotation. Fields missing from the
// source file are empty strings.
type Record struct {
	RSID              string // Variant identifier extracted from Variant/Haplotypes
	Gene              string // Gene symbol (e.g., CYP2D6)
	Drugs             string // Raw drug field, comma-delimited
	PhenotypeCategory string // e.g., "Efficacy", "Toxicity", "Dosage"
	Significance      string // "yes", "no" or "not stated"
	Notes             string
	Sentence          string
	Alleles           string
}

// Index groups annotation records by rsID. One rsID may map to many records.
type Index struct {
	records []*Record
	byID    map[string][]*Record
}

// NewIndex builds an index over records, preserving input order within
// each rsID group.
func NewIndex(records []*Record) *Index {
	idx := &Index{
		records: records,
		byID:    make(map[string][]*Record),
	}
	for _, r := range records {
		idx.byID[r.RSID] = append(idx.byID[r.RSID], r)
	}
	return idx
}

// Lookup returns all records for an rsID in input order, or nil.
func (idx *Index) Lookup(rsid string) []*Record {
	return idx.byID[rsid]
}

// Records returns every record in input order.
func (idx *Index) Records() []*Record {
	return idx.records
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return len(idx.records)
}
