// Package network builds and analyzes the gene-drug interaction graph.
package network

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NodeType tags a node as a gene or a drug.
type NodeType string

const (
	NodeGene NodeType = "gene"
	NodeDrug NodeType = "drug"
)

// Node is a gene or drug vertex. Genes and drugs share one name space.
type Node struct {
	Name string
	Type NodeType
}

// Edge is an undirected gene-drug interaction.
type Edge struct {
	Gene   string   // endpoint inserted as the gene
	Drug   string   // endpoint inserted as the drug
	Weight int      // number of matched variants supporting the edge
	RSIDs  []string // supporting rsIDs in arrival order, may repeat
}

// edgeKey identifies an unordered pair of node names; a <= b.
type edgeKey struct {
	a, b string
}

func newEdgeKey(u, v string) edgeKey {
	if v < u {
		u, v = v, u
	}
	return edgeKey{a: u, b: v}
}

// Graph is an undirected gene-drug graph. Nodes and edges iterate in
// first-insertion order.
type Graph struct {
	nodes *orderedmap.OrderedMap[string, *Node]
	edges *orderedmap.OrderedMap[edgeKey, *Edge]
	adj   map[string]map[string]struct{}
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: orderedmap.New[string, *Node](),
		edges: orderedmap.New[edgeKey, *Edge](),
		adj:   make(map[string]map[string]struct{}),
	}
}

// addNode inserts a node or retypes an existing one. A retyped node keeps
// its original position.
func (g *Graph) addNode(name string, typ NodeType) {
	if n, ok := g.nodes.Get(name); ok {
		n.Type = typ
		return
	}
	g.nodes.Set(name, &Node{Name: name, Type: typ})
}

// addInteraction records one supporting rsID for the gene-drug pair,
// creating the edge on first sight. Both nodes must already exist.
func (g *Graph) addInteraction(gene, drug, rsid string) {
	key := newEdgeKey(gene, drug)
	if e, ok := g.edges.Get(key); ok {
		e.Weight++
		e.RSIDs = append(e.RSIDs, rsid)
		return
	}

	g.edges.Set(key, &Edge{
		Gene:   gene,
		Drug:   drug,
		Weight: 1,
		RSIDs:  []string{rsid},
	})
	g.link(gene, drug)
	g.link(drug, gene)
}

func (g *Graph) link(u, v string) {
	if g.adj[u] == nil {
		g.adj[u] = make(map[string]struct{})
	}
	g.adj[u][v] = struct{}{}
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes.Get(name)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns the edge between u and v in either order.
func (g *Graph) Edge(u, v string) (Edge, bool) {
	e, ok := g.edges.Get(newEdgeKey(u, v))
	if !ok {
		return Edge{}, false
	}
	return copyEdge(e), true
}

// Nodes returns all nodes in first-insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, *pair.Value)
	}
	return nodes
}

// Edges returns all edges in creation order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges.Len())
	for pair := g.edges.Oldest(); pair != nil; pair = pair.Next() {
		edges = append(edges, copyEdge(pair.Value))
	}
	return edges
}

// Degree returns the number of distinct neighbours of a node, whatever their
// type. A name listed as both gene and drug of one variant forms a
// self-loop, which counts as a single neighbour.
func (g *Graph) Degree(name string) int {
	return len(g.adj[name])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.nodes.Len()
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges.Len()
}

func copyEdge(e *Edge) Edge {
	c := *e
	c.RSIDs = slices.Clone(e.RSIDs)
	return c
}
