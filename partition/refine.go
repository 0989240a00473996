package partition

import "github.com/mickey530447/dream-and-lethe/graph"

// defaultRefinePasses caps hill-climbing passes per trial. Each pass applies
// at most one change, so this also bounds how far a construction can drift.
const defaultRefinePasses = 50

// Refiner improves a full assignment by hill climbing. Each pass evaluates
// every cross-group swap and every move into spare capacity, then applies
// only the single best strictly-improving change; passes repeat until no
// change improves the score or MaxPasses is reached. The refined score is
// therefore never below the input score.
type Refiner struct {
	MaxPasses int // 0 means defaultRefinePasses
}

// Refine mutates a in place and returns its final score.
func (r Refiner) Refine(g *graph.Graph, caps Capacities, a *Assignment) int {
	passes := r.MaxPasses
	if passes <= 0 {
		passes = defaultRefinePasses
	}
	for pass := 0; pass < passes; pass++ {
		if !bestChange(g, caps, a) {
			break
		}
	}
	return a.Score(g)
}

// change identifies one candidate alteration: a swap of two members when
// xj >= 0, otherwise a move of member xi from group gi into group gj.
type change struct {
	gi, xi int
	gj, xj int
}

// bestChange scans every swap and move, applies the single best
// strictly-improving one and reports whether anything changed.
func bestChange(g *graph.Graph, caps Capacities, a *Assignment) bool {
	var best change
	bestDelta := 0

	// Swaps across every unordered pair of groups.
	for gi := 0; gi < len(a.Groups); gi++ {
		for gj := gi + 1; gj < len(a.Groups); gj++ {
			for xi, x := range a.Groups[gi] {
				for xj, y := range a.Groups[gj] {
					if delta := swapDelta(g, a.Groups[gi], a.Groups[gj], x, y); delta > bestDelta {
						bestDelta = delta
						best = change{gi: gi, xi: xi, gj: gj, xj: xj}
					}
				}
			}
		}
	}

	// Moves into any group with spare capacity.
	for gi := range a.Groups {
		for gj := range a.Groups {
			if gi == gj || len(a.Groups[gj]) >= caps[gj] {
				continue
			}
			for xi, x := range a.Groups[gi] {
				delta := g.DegreeWithin(x, a.Groups[gj]) - g.DegreeWithin(x, a.Groups[gi])
				if delta > bestDelta {
					bestDelta = delta
					best = change{gi: gi, xi: xi, gj: gj, xj: -1}
				}
			}
		}
	}

	if bestDelta <= 0 {
		return false
	}
	if best.xj >= 0 {
		a.Groups[best.gi][best.xi], a.Groups[best.gj][best.xj] =
			a.Groups[best.gj][best.xj], a.Groups[best.gi][best.xi]
	} else {
		x := a.Groups[best.gi][best.xi]
		a.Groups[best.gi] = append(a.Groups[best.gi][:best.xi], a.Groups[best.gi][best.xi+1:]...)
		a.Groups[best.gj] = append(a.Groups[best.gj], x)
	}
	return true
}

// swapDelta is the score change from exchanging x (a member of gi) with y
// (a member of gj). Connections counted toward each other's old group are
// discounted because both entities leave at once.
func swapDelta(g *graph.Graph, gi, gj []int, x, y int) int {
	delta := g.DegreeWithin(x, gj) + g.DegreeWithin(y, gi) -
		g.DegreeWithin(x, gi) - g.DegreeWithin(y, gj)
	if g.Adjacent(x, y) {
		delta -= 2
	}
	return delta
}
