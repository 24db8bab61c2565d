// Package match joins personal genotype calls against PharmGKB annotations.
package match

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/genotype"
	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

// Filter values a record must carry to qualify. Compared exactly.
const (
	SignificanceYes  = "yes"
	CategoryEfficacy = "Efficacy"
)

// EntrySource provides genotype entries in file order.
type EntrySource interface {
	Entries() []*genotype.Entry
}

// AnnotationLookup defines the interface for finding annotations by rsID.
// Implementations return nil when nothing is known about the rsID.
type AnnotationLookup interface {
	Lookup(rsid string) []*pharmgkb.Record
}

// MatchedVariant pairs a genotype entry with a qualifying annotation record
// for the same rsID.
type MatchedVariant struct {
	Entry  *genotype.Entry
	Record *pharmgkb.Record
}

// RSID returns the shared variant identifier.
func (m MatchedVariant) RSID() string { return m.Entry.RSID }

// Gene returns the annotated gene symbol.
func (m MatchedVariant) Gene() string { return m.Record.Gene }

// Drugs returns the raw comma-delimited drug field.
func (m MatchedVariant) Drugs() string { return m.Record.Drugs }

// UserGenotype returns the user's called alleles.
func (m MatchedVariant) UserGenotype() string { return m.Entry.Genotype }

// Qualifies reports whether a record passes the match filter: significant
// and classified as affecting efficacy. The user's alleles are not compared
// against the record's Alleles field.
func Qualifies(r *pharmgkb.Record) bool {
	return r.Significance == SignificanceYes && r.PhenotypeCategory == CategoryEfficacy
}

// Matcher joins genotype entries against annotations.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a new matcher.
func NewMatcher() *Matcher {
	return &Matcher{logger: zap.NewNop()}
}

// SetLogger sets the logger for debug and info messages.
func (m *Matcher) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Match returns one MatchedVariant per (entry, qualifying record) pair,
// ordered by entry order and then by annotation order.
func (m *Matcher) Match(store EntrySource, idx AnnotationLookup) []MatchedVariant {
	var matches []MatchedVariant
	for _, e := range store.Entries() {
		matches = append(matches, matchEntry(e, idx)...)
	}

	m.logger.Debug("matched variants",
		zap.Int("entries", len(store.Entries())),
		zap.Int("matches", len(matches)))
	return matches
}

// matchEntry returns the matches for a single entry.
func matchEntry(e *genotype.Entry, idx AnnotationLookup) []MatchedVariant {
	var matches []MatchedVariant
	for _, r := range idx.Lookup(e.RSID) {
		if Qualifies(r) {
			matches = append(matches, MatchedVariant{Entry: e, Record: r})
		}
	}
	return matches
}
