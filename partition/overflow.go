package partition

import (
	"math/rand"
	"sort"
)

// Defaults for overflow trimming. Small excesses are worth a removal search;
// anything larger falls back to priority scoring.
const (
	defaultSmallExcess    = 4
	defaultTopK           = 20
	defaultOverflowTrials = 100

	// maxRemovalCombos caps the removal-search space. Pools whose
	// combination count would pass it are trimmed by priority instead.
	maxRemovalCombos = 20000
)

// trim reduces valid down to the capacity total. Small excesses get a
// near-exhaustive removal search; large ones keep the candidates with the
// best pool-wide standing. Both paths are deterministic for a given rng.
func (o *Optimizer) trim(valid []int, rng *rand.Rand) (kept []int, dropped int) {
	excess := len(valid) - o.Caps.Total()
	if excess <= 0 {
		return valid, 0
	}
	small := o.SmallExcess
	if small <= 0 {
		small = defaultSmallExcess
	}
	if excess <= small && combinationCount(len(valid), excess) <= maxRemovalCombos {
		return o.trimExhaustive(valid, excess, rng), excess
	}
	return o.trimByPriority(valid), excess
}

// trimExhaustive screens every removal combination of size excess with one
// cheap deterministic construction, then fully optimizes the best TopK
// subsets before committing to one.
func (o *Optimizer) trimExhaustive(valid []int, excess int, rng *rand.Rand) []int {
	type entry struct {
		subset []int
		quick  int
	}
	var entries []entry
	combinations(len(valid), excess, func(removed []int) {
		subset := without(valid, removed)
		quick := ClusterSeed.Build(o.Graph, o.Caps, subset, rng).Score(o.Graph)
		entries = append(entries, entry{subset, quick})
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].quick > entries[j].quick })

	k := o.TopK
	if k <= 0 {
		k = defaultTopK
	}
	if k > len(entries) {
		k = len(entries)
	}
	trials := o.OverflowTrials
	if trials <= 0 {
		trials = defaultOverflowTrials
	}

	best := entries[0].subset
	bestScore := -1
	for _, e := range entries[:k] {
		if res := o.run(e.subset, rng, trials); res.Score > bestScore {
			best, bestScore = e.subset, res.Score
		}
	}
	return best
}

// trimByPriority keeps the candidates with the highest pool-wide degree plus
// half their cluster bonus. The sort is stable, so equal scores keep their
// input order.
func (o *Optimizer) trimByPriority(valid []int) []int {
	type scored struct {
		v        int
		priority float64
	}
	scores := make([]scored, len(valid))
	for i, v := range valid {
		scores[i] = scored{
			v: v,
			priority: float64(o.Graph.DegreeWithin(v, valid)) +
				0.5*float64(o.Graph.ClusterBonus(v, valid)),
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].priority > scores[j].priority })

	kept := make([]int, o.Caps.Total())
	for i := range kept {
		kept[i] = scores[i].v
	}
	return kept
}

// combinationCount returns C(n, k), saturating at maxRemovalCombos+1.
func combinationCount(n, k int) int {
	if k > n-k {
		k = n - k
	}
	count := 1
	for i := 0; i < k; i++ {
		count = count * (n - i) / (i + 1)
		if count > maxRemovalCombos {
			return maxRemovalCombos + 1
		}
	}
	return count
}

// combinations calls fn with every k-subset of [0, n) in lexicographic
// order. The slice is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// without returns valid minus the members at the given ascending positions.
func without(valid []int, removed []int) []int {
	out := make([]int, 0, len(valid)-len(removed))
	ri := 0
	for i, v := range valid {
		if ri < len(removed) && removed[ri] == i {
			ri++
			continue
		}
		out = append(out, v)
	}
	return out
}
