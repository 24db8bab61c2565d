package network

import (
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/match"
)

// Builder builds interaction graphs from matched variants.
type Builder struct {
	graph  *Graph
	logger *zap.Logger
}

// NewBuilder creates a builder holding an empty graph.
func NewBuilder() *Builder {
	return &Builder{
		graph:  NewGraph(),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build constructs a new graph from matched variants and replaces the
// builder's previous graph with it. The returned graph must be treated as
// read-only.
//
// Variants without a gene are skipped. Each drug named in a variant's drug
// field adds one increment to the corresponding gene-drug edge.
func (b *Builder) Build(mvs []match.MatchedVariant) *Graph {
	g := NewGraph()
	skipped := 0

	for _, mv := range mvs {
		gene := mv.Gene()
		if gene == "" {
			skipped++
			continue
		}

		g.addNode(gene, NodeGene)
		for _, drug := range SplitDrugs(mv.Drugs()) {
			g.addNode(drug, NodeDrug)
			g.addInteraction(gene, drug, mv.RSID())
		}
	}

	b.logger.Debug("built interaction graph",
		zap.Int("matches", len(mvs)),
		zap.Int("skipped", skipped),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))

	b.graph = g
	return g
}

// Graph returns the most recently built graph.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// SplitDrugs splits a comma-delimited drug field into trimmed, non-empty
// drug names.
func SplitDrugs(field string) []string {
	var drugs []string
	for _, d := range strings.Split(field, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		drugs = append(drugs, d)
	}
	return drugs
}
