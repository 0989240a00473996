// Command bench compares construction policies over a relationship table,
// reporting best and mean scores per policy.
//
// Usage:
//
//	go run ./cmd/bench -rounds 50
//	go run ./cmd/bench -dataset table.xlsx -trials 500
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/mickey530447/dream-and-lethe/dataset"
	"github.com/mickey530447/dream-and-lethe/graph"
	"github.com/mickey530447/dream-and-lethe/partition"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "", "Path to relationship table (default: built-in)")
		rounds      = flag.Int("rounds", 20, "Optimization rounds per policy")
		seed        = flag.Int64("seed", 1, "Base random seed")
		trials      = flag.Int("trials", 0, "Construction trials per round (0 = scale with pool size)")
	)
	flag.Parse()

	ds := dataset.Default()
	if *datasetPath != "" {
		loaded, err := dataset.Load(*datasetPath)
		if err != nil {
			log.Fatalf("loading dataset: %v", err)
		}
		ds = loaded
	}

	g := graph.Build(ds.Relationships)
	caps := partition.Capacities(ds.Capacities)
	if len(caps) == 0 {
		caps = partition.Capacities(dataset.Default().Capacities)
	}
	if err := caps.Validate(); err != nil {
		log.Fatalf("invalid capacities: %v", err)
	}

	fmt.Printf("Table %s: %d names, %d edges, capacities %v\n\n",
		ds.Name, g.Len(), g.Edges(), []int(caps))

	// Single-strategy policies plus the default mix.
	type namedPolicy struct {
		name   string
		policy partition.Policy
	}
	var policies []namedPolicy
	for _, name := range []string{"balanced", "cluster_seed", "fill_first", "greedy_gain"} {
		p, err := partition.PolicyFromWeights(map[string]int{name: 1})
		if err != nil {
			log.Fatalf("building policy %s: %v", name, err)
		}
		policies = append(policies, namedPolicy{name, p})
	}
	policies = append(policies, namedPolicy{"default", partition.DefaultPolicy()})

	// A shuffled registry gives a pool that fits exactly plus, when the
	// table is larger than the capacities, an overflowing one.
	registry := rand.New(rand.NewSource(*seed)).Perm(g.Len())

	type benchPool struct {
		name       string
		candidates []int
	}
	var pools []benchPool
	if n := caps.Total(); g.Len() > n {
		pools = append(pools,
			benchPool{"fit", registry[:n]},
			benchPool{"overflow", registry},
		)
	} else {
		pools = append(pools, benchPool{"registry", registry})
	}

	for _, p := range pools {
		fmt.Printf("Pool %s: %d candidates, capacity %d, %d rounds\n",
			p.name, len(p.candidates), caps.Total(), *rounds)
		fmt.Printf("  %-14s %6s %8s %10s\n", "policy", "best", "mean", "elapsed")
		for _, np := range policies {
			r, err := bench(g, caps, np.policy, p.candidates, *rounds, *seed, *trials)
			if err != nil {
				log.Fatalf("benching %s: %v", np.name, err)
			}
			fmt.Printf("  %-14s %6d %8.1f %10s\n",
				np.name, r.best, r.mean, r.elapsed.Round(time.Millisecond))
		}
		fmt.Println()
	}
}

type benchResult struct {
	best    int
	mean    float64
	elapsed time.Duration
}

// bench runs the optimizer rounds times with consecutive seeds and
// aggregates the scores.
func bench(g *graph.Graph, caps partition.Capacities, policy partition.Policy, candidates []int, rounds int, seed int64, trials int) (benchResult, error) {
	opt := partition.Optimizer{
		Graph:  g,
		Caps:   caps,
		Policy: policy,
		Trials: trials,
	}

	var best, total int
	start := time.Now()
	for r := 0; r < rounds; r++ {
		res, err := opt.Solve(candidates, rand.New(rand.NewSource(seed+int64(r))))
		if err != nil {
			return benchResult{}, err
		}
		total += res.Score
		if res.Score > best {
			best = res.Score
		}
	}
	return benchResult{
		best:    best,
		mean:    float64(total) / float64(rounds),
		elapsed: time.Since(start),
	}, nil
}
