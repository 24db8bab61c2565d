package network

import "sort"

// Ranked is a node name with its degree.
type Ranked struct {
	Name   string
	Degree int
}

// SummaryRow describes one edge of the graph.
type SummaryRow struct {
	Gene             string
	Drug             string
	InteractionCount int
	RSIDs            []string // distinct rsIDs in first-seen order
}

// Stats holds node and edge counts of a graph.
type Stats struct {
	Nodes int
	Edges int
	Genes int
	Drugs int
}

// Analyzer computes degree rankings and summaries over a built graph.
type Analyzer struct {
	graph *Graph
}

// NewAnalyzer creates an analyzer for g. g is not modified.
func NewAnalyzer(g *Graph) *Analyzer {
	return &Analyzer{graph: g}
}

// TopImpactGenes returns up to n gene nodes with the most distinct
// neighbours, highest first. Ties keep node insertion order.
func (a *Analyzer) TopImpactGenes(n int) []Ranked {
	return a.top(NodeGene, n)
}

// TopMultigeneDrugs returns up to n drug nodes with the most distinct
// neighbours, highest first. Ties keep node insertion order.
func (a *Analyzer) TopMultigeneDrugs(n int) []Ranked {
	return a.top(NodeDrug, n)
}

func (a *Analyzer) top(typ NodeType, n int) []Ranked {
	if n <= 0 {
		return nil
	}

	var ranked []Ranked
	for _, node := range a.graph.Nodes() {
		if node.Type != typ {
			continue
		}
		ranked = append(ranked, Ranked{Name: node.Name, Degree: a.graph.Degree(node.Name)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ExportSummary returns one row per edge in edge creation order.
// The endpoint currently typed as a gene is reported in the Gene column.
func (a *Analyzer) ExportSummary() []SummaryRow {
	edges := a.graph.Edges()
	rows := make([]SummaryRow, 0, len(edges))
	for _, e := range edges {
		gene, drug := e.Gene, e.Drug
		if n, ok := a.graph.Node(gene); ok && n.Type != NodeGene {
			gene, drug = drug, gene
		}
		rows = append(rows, SummaryRow{
			Gene:             gene,
			Drug:             drug,
			InteractionCount: e.Weight,
			RSIDs:            dedupe(e.RSIDs),
		})
	}
	return rows
}

// Stats returns node and edge counts.
func (a *Analyzer) Stats() Stats {
	s := Stats{
		Nodes: a.graph.NodeCount(),
		Edges: a.graph.EdgeCount(),
	}
	for _, n := range a.graph.Nodes() {
		switch n.Type {
		case NodeGene:
			s.Genes++
		case NodeDrug:
			s.Drugs++
		}
	}
	return s
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
