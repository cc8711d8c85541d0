// Package graph implements the scene graph the environment reasons over.
package graph

import "errors"
import "fmt"
import "sort"

// ErrUnknownNode is returned when an edge references a node which is not in the graph.
var ErrUnknownNode = errors.New("edge references unknown node")

// Node is one object of the scene.
type Node struct {
	ID    int      `json:"id" yaml:"id"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Attrs []string `json:"attrs" yaml:"attrs"`
}

// HasAttr reports whether the node carries attribute a.
func (n Node) HasAttr(a string) bool {
	for _, v := range n.Attrs {
		if v == a {
			return true
		}
	}
	return false
}

// Edge is a directed labelled relation between two nodes.
type Edge struct {
	From     int    `json:"from" yaml:"from"`
	To       int    `json:"to" yaml:"to"`
	Relation string `json:"relation" yaml:"relation"`
}

// Graph is a scene graph. Node ids are their positions in Nodes.
type Graph struct {
	ID    string `json:"id" yaml:"id"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`

	out map[int][]Edge
}

// Validate checks node ids and edge endpoints, and builds the adjacency index.
func (g *Graph) Validate() error {
	for i, n := range g.Nodes {
		if n.ID != i {
			return fmt.Errorf("graph %s: node at position %d has id %d", g.ID, i, n.ID)
		}
	}
	g.out = make(map[int][]Edge)
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= len(g.Nodes) || e.To < 0 || e.To >= len(g.Nodes) {
			return fmt.Errorf("graph %s: %w: %d -> %d", g.ID, ErrUnknownNode, e.From, e.To)
		}
		g.out[e.From] = append(g.out[e.From], e)
	}
	return nil
}

func (g *Graph) index() {
	if g.out == nil {
		g.out = make(map[int][]Edge)
		for _, e := range g.Edges {
			g.out[e.From] = append(g.out[e.From], e)
		}
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Out returns the outgoing edges of node n.
func (g *Graph) Out(n int) []Edge {
	g.index()
	return g.out[n]
}

// Related returns the targets of n's outgoing edges labelled rel, in edge order.
func (g *Graph) Related(n int, rel string) (o []int) {
	for _, e := range g.Out(n) {
		if e.Relation == rel {
			o = append(o, e.To)
		}
	}
	return
}

// Neighbors returns the nodes adjacent to n in either direction, without duplicates.
func (g *Graph) Neighbors(n int) []int {
	var set = make(map[int]struct{})
	for _, e := range g.Edges {
		if e.From == n {
			set[e.To] = struct{}{}
		}
		if e.To == n {
			set[e.From] = struct{}{}
		}
	}
	delete(set, n)
	o := make([]int, 0, len(set))
	for k := range set {
		o = append(o, k)
	}
	sort.Ints(o)
	return o
}

// Attributes returns the sorted set of attribute names used by the graph.
func (g *Graph) Attributes() []string {
	var set = make(map[string]struct{})
	for _, n := range g.Nodes {
		for _, a := range n.Attrs {
			set[a] = struct{}{}
		}
	}
	return sorted(set)
}

// Relations returns the sorted set of relation labels used by the graph.
func (g *Graph) Relations() []string {
	var set = make(map[string]struct{})
	for _, e := range g.Edges {
		set[e.Relation] = struct{}{}
	}
	return sorted(set)
}

func sorted(set map[string]struct{}) []string {
	o := make([]string, 0, len(set))
	for k := range set {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
