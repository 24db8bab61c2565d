// Package genotype provides personal genotype loading and lookup by rsID.
package genotype

// Entry represents a single genotype call from a personal genome file.
type Entry struct {
	RSID     string // Variant identifier (e.g., rs1065852)
	Chrom    string // Chromosome name (e.g., "22")
	Pos      int64  // 1-based genomic position
	Genotype string // Called alleles (e.g., "AG", "--" for no call)
}

// Store holds a user's genotype calls in file order with an rsID index.
type Store struct {
	entries []*Entry
	byID    map[string]*Entry
}

// NewStore creates a store from entries. When an rsID appears more than
// once, Lookup returns the last entry; Entries still returns every entry.
func NewStore(entries []*Entry) *Store {
	s := &Store{
		entries: make([]*Entry, 0, len(entries)),
		byID:    make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// Add appends an entry and makes it the lookup result for its rsID.
func (s *Store) Add(e *Entry) {
	s.entries = append(s.entries, e)
	s.byID[e.RSID] = e
}

// Lookup returns the entry for an rsID.
func (s *Store) Lookup(rsid string) (*Entry, bool) {
	e, ok := s.byID[rsid]
	return e, ok
}

// Entries returns all entries in their original order.
func (s *Store) Entries() []*Entry {
	return s.entries
}

// Len returns the number of entries, including duplicates.
func (s *Store) Len() int {
	return len(s.entries)
}
