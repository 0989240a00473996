package partition

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestRefineNeverDecreasesScore(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"A": {"B", "C", "D"},
		"B": {"C"},
		"D": {"E", "F"},
		"E": {"F"},
		"G": {"H"},
	})
	candidates := indices(t, g, "A", "B", "C", "D", "E", "F", "G", "H")
	caps := Capacities{3, 3, 2}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		a := FillFirst.Build(g, caps, candidates, rng)
		before := a.Score(g)

		after := Refiner{}.Refine(g, caps, a)
		if after < before {
			t.Errorf("seed %d: Refine() = %d, below input score %d", seed, after, before)
		}
		if got := a.Score(g); got != after {
			t.Errorf("seed %d: returned score %d, recomputed %d", seed, after, got)
		}
		assertValidGroups(t, caps, a.Groups, candidates)
	}
}

func TestRefineFindsObviousSwap(t *testing.T) {
	// Pairs split across groups: {A,C},{B,D} scores 0 but swapping C and B
	// reunites both edges.
	g := buildGraph(t, map[string][]string{"A": {"B"}, "C": {"D"}})
	caps := Capacities{2, 2}

	a := NewAssignment(caps)
	a.Groups[0] = append(a.Groups[0], indices(t, g, "A", "C")...)
	a.Groups[1] = append(a.Groups[1], indices(t, g, "B", "D")...)
	if got := a.Score(g); got != 0 {
		t.Fatalf("starting Score = %d, want 0", got)
	}

	if got, want := (Refiner{}).Refine(g, caps, a), 2; got != want {
		t.Errorf("Refine() = %d, want %d", got, want)
	}
}

func TestRefineUsesSpareCapacityMove(t *testing.T) {
	// Moving C into the triangle's group needs a move, not a swap: group 1
	// would be left empty, which no exchange can produce.
	g := buildGraph(t, map[string][]string{"A": {"B", "C"}, "B": {"C"}})
	caps := Capacities{3, 1}

	a := NewAssignment(caps)
	a.Groups[0] = append(a.Groups[0], indices(t, g, "A", "B")...)
	a.Groups[1] = append(a.Groups[1], indices(t, g, "C")...)

	if got, want := (Refiner{}).Refine(g, caps, a), 3; got != want {
		t.Errorf("Refine() = %d, want %d", got, want)
	}
	if len(a.Groups[0]) != 3 || len(a.Groups[1]) != 0 {
		t.Errorf("groups after refine = %v, want the triangle together", a.Groups)
	}
}

func TestRefineLeavesOptimumAlone(t *testing.T) {
	// {A,B},{C,D} is already optimal; equal-score churn must not happen.
	g := buildGraph(t, map[string][]string{"A": {"B"}, "C": {"D"}})
	caps := Capacities{2, 2}

	a := NewAssignment(caps)
	a.Groups[0] = append(a.Groups[0], indices(t, g, "A", "B")...)
	a.Groups[1] = append(a.Groups[1], indices(t, g, "C", "D")...)
	want := a.Clone()

	if got := (Refiner{}).Refine(g, caps, a); got != 2 {
		t.Errorf("Refine() = %d, want 2", got)
	}
	if !reflect.DeepEqual(a.Groups, want.Groups) {
		t.Errorf("groups changed without improvement: %v, want %v", a.Groups, want.Groups)
	}
}

func TestRefineHonorsPassCap(t *testing.T) {
	// A long improvement chain with MaxPasses 1 applies exactly one change.
	g := buildGraph(t, map[string][]string{"A": {"B"}, "C": {"D"}, "E": {"F"}})
	caps := Capacities{2, 2, 2}

	a := NewAssignment(caps)
	a.Groups[0] = append(a.Groups[0], indices(t, g, "A", "C")...)
	a.Groups[1] = append(a.Groups[1], indices(t, g, "B", "E")...)
	a.Groups[2] = append(a.Groups[2], indices(t, g, "D", "F")...)

	capped := (Refiner{MaxPasses: 1}).Refine(g, caps, a.Clone())
	full := (Refiner{}).Refine(g, caps, a)
	if capped >= full {
		t.Errorf("MaxPasses=1 score %d, unrestricted %d; want capped run to stop short", capped, full)
	}
	if full != 3 {
		t.Errorf("unrestricted Refine() = %d, want 3", full)
	}
}

func TestSwapDeltaMatchesRescoring(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"A": {"B", "C", "E"},
		"B": {"C", "F"},
		"D": {"E", "F"},
		"E": {"F"},
	})
	candidates := indices(t, g, "A", "B", "C", "D", "E", "F")
	caps := Capacities{3, 3}

	for seed := int64(1); seed <= 10; seed++ {
		a := FillFirst.Build(g, caps, candidates, rand.New(rand.NewSource(seed)))
		before := a.Score(g)

		for xi := range a.Groups[0] {
			for xj := range a.Groups[1] {
				want := func() int {
					b := a.Clone()
					b.Groups[0][xi], b.Groups[1][xj] = b.Groups[1][xj], b.Groups[0][xi]
					return b.Score(g) - before
				}()
				got := swapDelta(g, a.Groups[0], a.Groups[1], a.Groups[0][xi], a.Groups[1][xj])
				if got != want {
					t.Errorf("seed %d swap (%d,%d): delta = %d, want %d", seed, xi, xj, got, want)
				}
			}
		}
	}
}
