package partition

import (
	"math/rand"

	"github.com/mickey530447/dream-and-lethe/graph"
)

// Trial budgets by candidate count. Small pools converge quickly; larger
// ones get more restarts.
const (
	trialsSmall  = 150 // up to 8 candidates
	trialsMedium = 300 // up to 12 candidates
	trialsLarge  = 500

	// maxStaleCap bounds the early-stop window regardless of budget.
	maxStaleCap = 50
)

// Optimizer runs repeated construction and refinement trials over one graph
// and capacity list, keeping the best assignment seen. The zero value is not
// usable: Graph and Caps are required, everything else defaults.
type Optimizer struct {
	Graph *graph.Graph
	Caps  Capacities

	Policy       Policy // strategy rotation; DefaultPolicy when empty
	Trials       int    // 0 scales with candidate count
	MaxStale     int    // early stop after this many flat trials; 0 = min(50, trials/4)
	RefinePasses int    // hill-climbing pass cap per trial

	SmallExcess    int // largest overflow handled by removal search
	TopK           int // removal-search shortlist size
	OverflowTrials int // trial budget per shortlisted subset
}

// Result is the outcome of one solve.
type Result struct {
	Groups  [][]int // entity indices per group, same shape as Caps
	Score   int
	Dropped int // candidates trimmed by overflow selection
	Trials  int // construction trials actually run
}

// Solve places candidates into groups, trimming the pool first when it
// exceeds the capacity total. Candidates must be distinct graph indices;
// order matters only as a tie-break. The call is deterministic for a given
// rng state and never fails once the capacities validate: an empty pool
// yields empty groups and score zero.
func (o *Optimizer) Solve(candidates []int, rng *rand.Rand) (Result, error) {
	if err := o.Caps.Validate(); err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{Groups: NewAssignment(o.Caps).Groups}, nil
	}

	kept, dropped := o.trim(candidates, rng)
	res := o.run(kept, rng, o.trialBudget(len(kept)))
	res.Dropped = dropped
	return res, nil
}

// run is the trial loop shared by Solve and overflow re-scoring.
func (o *Optimizer) run(candidates []int, rng *rand.Rand, trials int) Result {
	sched := o.Policy.schedule()
	if len(sched) == 0 {
		sched = DefaultPolicy().schedule()
	}
	refiner := Refiner{MaxPasses: o.RefinePasses}
	maxStale := o.MaxStale
	if maxStale <= 0 {
		maxStale = trials / 4
		if maxStale > maxStaleCap {
			maxStale = maxStaleCap
		}
		if maxStale < 1 {
			maxStale = 1
		}
	}

	var best *Assignment
	bestScore := -1
	stale := 0
	ran := 0
	for t := 0; t < trials; t++ {
		ran++
		a := sched[t%len(sched)].Build(o.Graph, o.Caps, candidates, rng)
		if score := refiner.Refine(o.Graph, o.Caps, a); score > bestScore {
			best, bestScore = a, score
			stale = 0
			continue
		}
		stale++
		if stale >= maxStale {
			break
		}
	}
	return Result{Groups: best.Groups, Score: bestScore, Trials: ran}
}

func (o *Optimizer) trialBudget(candidates int) int {
	if o.Trials > 0 {
		return o.Trials
	}
	switch {
	case candidates <= 8:
		return trialsSmall
	case candidates <= 12:
		return trialsMedium
	}
	return trialsLarge
}
