// Package graph builds and queries the relationship structure between named
// entities. Declarations are directed (name -> related names) but the graph
// is undirected: every declared edge is stored in both directions, duplicates
// collapse and self references are dropped.
package graph

import (
	"sort"
	"strings"
)

// Graph is an undirected, loop-free relationship graph over a fixed registry
// of canonical entity names. It is built once and read-only afterwards.
type Graph struct {
	names []string       // canonical names, sorted
	index map[string]int // lower-cased name -> index
	adj   [][]int        // neighbour indices, ascending
	nbr   []map[int]struct{}
	edges int
}

// Build constructs a Graph from a declaration table. Every name appearing
// anywhere in the table, as a key or as a related name, joins the registry.
// Names are matched case-insensitively; when spellings differ only by case
// the lexicographically smallest spelling becomes canonical, so the result
// does not depend on map iteration order.
func Build(relationships map[string][]string) *Graph {
	canon := make(map[string]string)
	note := func(raw string) {
		name := strings.TrimSpace(raw)
		if name == "" {
			return
		}
		fold := strings.ToLower(name)
		if cur, ok := canon[fold]; !ok || name < cur {
			canon[fold] = name
		}
	}
	for name, related := range relationships {
		note(name)
		for _, r := range related {
			note(r)
		}
	}

	names := make([]string, 0, len(canon))
	for _, name := range canon {
		names = append(names, name)
	}
	sort.Strings(names)

	// Map folded name -> index for the compact adjacency representation.
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[strings.ToLower(name)] = i
	}

	nbr := make([]map[int]struct{}, len(names))
	for i := range nbr {
		nbr[i] = make(map[int]struct{})
	}
	edges := 0
	for name, related := range relationships {
		si, ok := index[fold(name)]
		if !ok {
			continue
		}
		for _, r := range related {
			ti, ok := index[fold(r)]
			if !ok || si == ti {
				continue
			}
			if _, dup := nbr[si][ti]; dup {
				continue
			}
			nbr[si][ti] = struct{}{}
			nbr[ti][si] = struct{}{}
			edges++
		}
	}

	adj := make([][]int, len(names))
	for i, set := range nbr {
		adj[i] = make([]int, 0, len(set))
		for j := range set {
			adj[i] = append(adj[i], j)
		}
		sort.Ints(adj[i])
	}

	return &Graph{names: names, index: index, adj: adj, nbr: nbr, edges: edges}
}

func fold(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Len returns the registry size.
func (g *Graph) Len() int { return len(g.names) }

// Edges returns the number of undirected edges.
func (g *Graph) Edges() int { return g.edges }

// Resolve matches a name case-insensitively against the registry.
func (g *Graph) Resolve(name string) (int, bool) {
	i, ok := g.index[fold(name)]
	return i, ok
}

// Canonical returns the registry spelling for index i.
func (g *Graph) Canonical(i int) string { return g.names[i] }

// Names returns every canonical name in sorted order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Adjacent reports whether a and b share an edge.
func (g *Graph) Adjacent(a, b int) bool {
	_, ok := g.nbr[a][b]
	return ok
}

// Neighbors returns the neighbour indices of v in ascending order.
func (g *Graph) Neighbors(v int) []int {
	out := make([]int, len(g.adj[v]))
	copy(out, g.adj[v])
	return out
}

// NeighborsOf returns the canonical names adjacent to name, sorted, or nil
// when the name is unknown to the registry.
func (g *Graph) NeighborsOf(name string) []string {
	v, ok := g.Resolve(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.adj[v]))
	for _, w := range g.adj[v] {
		out = append(out, g.names[w])
	}
	return out
}

// ConnectionsWithin counts the unordered adjacent pairs inside group.
// O(len(group)²), which is fine because groups are capacity-bounded.
func (g *Graph) ConnectionsWithin(group []int) int {
	total := 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if g.Adjacent(group[i], group[j]) {
				total++
			}
		}
	}
	return total
}

// DegreeWithin counts pool members adjacent to v. v itself never counts,
// even when pool contains it.
func (g *Graph) DegreeWithin(v int, pool []int) int {
	d := 0
	for _, p := range pool {
		if p == v {
			continue
		}
		if g.Adjacent(v, p) {
			d++
		}
	}
	return d
}

// ClusterBonus counts the mutually adjacent pairs among v's neighbours inside
// pool. High values mark entities embedded in tight clusters rather than
// merely high-degree hubs.
func (g *Graph) ClusterBonus(v int, pool []int) int {
	nbrs := make([]int, 0, len(pool))
	for _, p := range pool {
		if p == v {
			continue
		}
		if g.Adjacent(v, p) {
			nbrs = append(nbrs, p)
		}
	}
	bonus := 0
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			if g.Adjacent(nbrs[i], nbrs[j]) {
				bonus++
			}
		}
	}
	return bonus
}
