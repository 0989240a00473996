package partition

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mickey530447/dream-and-lethe/graph"
)

// Strategy builds one full assignment of candidates into capacity-bounded
// groups. Implementations are stateless and draw all randomness from the
// supplied rng, so a seeded run is reproducible.
type Strategy interface {
	Name() string
	Build(g *graph.Graph, caps Capacities, candidates []int, rng *rand.Rand) *Assignment
}

// The built-in construction strategies.
var (
	// FillFirst shuffles the candidates and packs them into the first group
	// until it is full, then the next, and so on.
	FillFirst Strategy = fillFirst{}

	// Balanced shuffles the candidates and places each into the group with
	// the fewest members, choosing uniformly at random among tied groups.
	Balanced Strategy = balanced{}

	// ClusterSeed seeds the first group with the highest-degree candidate and
	// grows each group around the entities best connected to it. It uses no
	// randomness at all.
	ClusterSeed Strategy = clusterSeed{}

	// GreedyGain shuffles the candidates and places each where it adds the
	// most new in-group connections.
	GreedyGain Strategy = greedyGain{}
)

// ByName returns the built-in strategy with the given name.
func ByName(name string) (Strategy, bool) {
	switch name {
	case "fill_first":
		return FillFirst, true
	case "balanced":
		return Balanced, true
	case "cluster_seed":
		return ClusterSeed, true
	case "greedy_gain":
		return GreedyGain, true
	}
	return nil, false
}

// StrategyWeight pairs a strategy with its share of construction trials.
type StrategyWeight struct {
	Strategy Strategy
	Weight   int
}

// Policy is an explicit strategy-selection policy. The driver expands it
// into a rotation schedule where each strategy appears Weight times in list
// order, so the mix is configuration rather than logic buried in the trial
// loop.
type Policy []StrategyWeight

// DefaultPolicy leans on the structure-aware strategies while keeping some
// purely random restarts in the mix.
func DefaultPolicy() Policy {
	return Policy{
		{GreedyGain, 2},
		{ClusterSeed, 2},
		{Balanced, 1},
		{FillFirst, 1},
	}
}

// PolicyFromWeights builds a policy from strategy-name weights, as parsed
// from configuration. Names are processed in sorted order so the resulting
// schedule does not depend on map iteration order. Entries with weight <= 0
// are skipped; unknown names are an error.
func PolicyFromWeights(weights map[string]int) (Policy, error) {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	var p Policy
	for _, name := range names {
		s, ok := ByName(name)
		if !ok {
			return nil, fmt.Errorf("partition: unknown strategy %q", name)
		}
		if weights[name] <= 0 {
			continue
		}
		p = append(p, StrategyWeight{s, weights[name]})
	}
	return p, nil
}

// schedule expands the policy into the concrete strategy rotation.
func (p Policy) schedule() []Strategy {
	var out []Strategy
	for _, sw := range p {
		if sw.Strategy == nil || sw.Weight <= 0 {
			continue
		}
		for i := 0; i < sw.Weight; i++ {
			out = append(out, sw.Strategy)
		}
	}
	return out
}

// shuffled returns a copy of candidates in rng order.
func shuffled(candidates []int, rng *rand.Rand) []int {
	out := append([]int(nil), candidates...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

type fillFirst struct{}

var _ Strategy = fillFirst{}

func (fillFirst) Name() string { return "fill_first" }

func (fillFirst) Build(g *graph.Graph, caps Capacities, candidates []int, rng *rand.Rand) *Assignment {
	a := NewAssignment(caps)
	gi := 0
	for _, v := range shuffled(candidates, rng) {
		for gi < len(caps) && len(a.Groups[gi]) >= caps[gi] {
			gi++
		}
		if gi == len(caps) {
			break
		}
		a.Groups[gi] = append(a.Groups[gi], v)
	}
	return a
}

type balanced struct{}

var _ Strategy = balanced{}

func (balanced) Name() string { return "balanced" }

func (balanced) Build(g *graph.Graph, caps Capacities, candidates []int, rng *rand.Rand) *Assignment {
	a := NewAssignment(caps)
	var tied []int
	for _, v := range shuffled(candidates, rng) {
		// Open groups with the fewest members; ties picked uniformly.
		tied = tied[:0]
		fewest := -1
		for i := range a.Groups {
			if len(a.Groups[i]) >= caps[i] {
				continue
			}
			switch {
			case fewest == -1 || len(a.Groups[i]) < fewest:
				fewest = len(a.Groups[i])
				tied = append(tied[:0], i)
			case len(a.Groups[i]) == fewest:
				tied = append(tied, i)
			}
		}
		if len(tied) == 0 {
			break
		}
		gi := tied[rng.Intn(len(tied))]
		a.Groups[gi] = append(a.Groups[gi], v)
	}
	return a
}

type clusterSeed struct{}

var _ Strategy = clusterSeed{}

func (clusterSeed) Name() string { return "cluster_seed" }

func (clusterSeed) Build(g *graph.Graph, caps Capacities, candidates []int, rng *rand.Rand) *Assignment {
	a := NewAssignment(caps)
	if len(candidates) == 0 {
		return a
	}

	remaining := append([]int(nil), candidates...)

	// Seed the first group with the best-connected candidate in the pool.
	seedAt := 0
	seedDeg := g.DegreeWithin(remaining[0], candidates)
	for i := 1; i < len(remaining); i++ {
		if d := g.DegreeWithin(remaining[i], candidates); d > seedDeg {
			seedAt, seedDeg = i, d
		}
	}
	a.Groups[0] = append(a.Groups[0], remaining[seedAt])
	remaining = append(remaining[:seedAt], remaining[seedAt+1:]...)

	// Grow each group around whoever connects to it most; ties and isolated
	// leftovers take the earliest remaining candidate.
	for gi := range caps {
		for len(a.Groups[gi]) < caps[gi] && len(remaining) > 0 {
			bestAt, bestEdges := 0, -1
			for i, v := range remaining {
				if e := g.DegreeWithin(v, a.Groups[gi]); e > bestEdges {
					bestAt, bestEdges = i, e
				}
			}
			a.Groups[gi] = append(a.Groups[gi], remaining[bestAt])
			remaining = append(remaining[:bestAt], remaining[bestAt+1:]...)
		}
	}
	return a
}

type greedyGain struct{}

var _ Strategy = greedyGain{}

func (greedyGain) Name() string { return "greedy_gain" }

func (greedyGain) Build(g *graph.Graph, caps Capacities, candidates []int, rng *rand.Rand) *Assignment {
	a := NewAssignment(caps)
	for _, v := range shuffled(candidates, rng) {
		// Adding v to a group gains exactly the number of members adjacent
		// to it. The first group with the largest positive gain wins.
		bestGroup, bestGain := -1, 0
		for i := range a.Groups {
			if len(a.Groups[i]) >= caps[i] {
				continue
			}
			if gain := g.DegreeWithin(v, a.Groups[i]); gain > bestGain {
				bestGroup, bestGain = i, gain
			}
		}
		if bestGroup == -1 {
			// Nothing gains: take the group with the most spare capacity.
			spare := 0
			for i := range a.Groups {
				if s := caps[i] - len(a.Groups[i]); s > spare {
					bestGroup, spare = i, s
				}
			}
			if bestGroup == -1 {
				break
			}
		}
		a.Groups[bestGroup] = append(a.Groups[bestGroup], v)
	}
	return a
}
