// Package dreamlethe assigns named candidates to capacity-bounded groups so
// that as many related pairs as possible land in the same group. It wraps
// the partition optimizer with a canonical name registry, dataset loading
// and run accounting.
package dreamlethe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mickey530447/dream-and-lethe/dataset"
	"github.com/mickey530447/dream-and-lethe/graph"
	"github.com/mickey530447/dream-and-lethe/metrics"
	"github.com/mickey530447/dream-and-lethe/partition"
)

// Engine is the main entry point for the assignment engine.
type Engine interface {
	// Assign partitions the given candidate names into groups. Unknown
	// names are reported in the result, not treated as an error.
	Assign(ctx context.Context, names []string, opts ...AssignOption) (*AssignResult, error)

	// Resolve maps a case-insensitive spelling to its canonical name.
	Resolve(name string) (string, bool)

	// Suggest returns up to limit canonical names containing the query.
	Suggest(query string, limit int) []string

	// Names returns every canonical name in the registry, sorted.
	Names() []string

	// Stats reports registry and run counters.
	Stats(ctx context.Context) (*Stats, error)

	// Close marks the engine closed. Assign and Stats fail afterwards.
	Close() error
}

// AssignResult is the outcome of one assignment run.
type AssignResult struct {
	Groups     [][]string `json:"groups"`
	Capacities []int      `json:"capacities"`
	Score      int        `json:"score"`
	Unknown    []string   `json:"unknown,omitempty"`
	Dropped    int        `json:"dropped,omitempty"`
	Trials     int        `json:"trials"`
	Seed       int64      `json:"seed"`
}

// Stats reports registry and run counters.
type Stats struct {
	Dataset    string `json:"dataset"`
	Names      int    `json:"names"`
	Edges      int    `json:"edges"`
	Capacities []int  `json:"capacities"`
	Assigns    int64  `json:"assigns"`
}

// AssignOption configures a single assignment run.
type AssignOption func(*assignOptions)

type assignOptions struct {
	seed       int64
	seedSet    bool
	trials     int
	capacities []int
}

// WithSeed fixes the random seed for this run. A zero seed still draws a
// fresh one.
func WithSeed(seed int64) AssignOption {
	return func(o *assignOptions) { o.seed = seed; o.seedSet = true }
}

// WithTrials overrides the trial budget for this run.
func WithTrials(n int) AssignOption {
	return func(o *assignOptions) { o.trials = n }
}

// WithCapacities overrides the group sizes for this run.
func WithCapacities(sizes []int) AssignOption {
	return func(o *assignOptions) { o.capacities = sizes }
}

// Option configures the engine at construction.
type Option func(*engine)

// WithMetricsCollector wires a metrics collector into the engine.
func WithMetricsCollector(c metrics.Collector) Option {
	return func(e *engine) { e.metrics = c }
}

// Reloader is implemented by engines that can swap their relationship table
// at runtime. The dataset watcher uses it to apply live table edits.
type Reloader interface {
	SetDataset(ds *dataset.Dataset) error
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg     Config
	policy  partition.Policy
	metrics metrics.Collector

	mu      sync.RWMutex
	g       *graph.Graph
	caps    partition.Capacities
	dataset string
	closed  bool

	assigns atomic.Int64
}

// New creates an assignment engine from the given configuration.
func New(cfg Config, opts ...Option) (Engine, error) {
	ds := dataset.Default()
	if cfg.DatasetPath != "" {
		loaded, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			return nil, fmt.Errorf("loading dataset: %w", err)
		}
		ds = loaded
	}

	policy := partition.DefaultPolicy()
	if len(cfg.StrategyWeights) > 0 {
		p, err := partition.PolicyFromWeights(cfg.StrategyWeights)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	e := &engine{
		cfg:     cfg,
		policy:  policy,
		metrics: metrics.Nop{},
	}
	for _, o := range opts {
		o(e)
	}
	if err := e.SetDataset(ds); err != nil {
		return nil, err
	}
	return e, nil
}

// SetDataset swaps in a new relationship table. Config capacities, when
// set, keep overriding the dataset's own.
func (e *engine) SetDataset(ds *dataset.Dataset) error {
	g := graph.Build(ds.Relationships)
	if g.Len() == 0 {
		return ErrEmptyDataset
	}

	caps := partition.Capacities(e.cfg.Capacities)
	if len(caps) == 0 {
		caps = partition.Capacities(ds.Capacities)
	}
	if err := caps.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.g, e.caps, e.dataset = g, caps, ds.Name
	e.mu.Unlock()

	slog.Info("engine: dataset ready",
		"dataset", ds.Name, "names", g.Len(), "edges", g.Edges(), "capacities", []int(caps))
	return nil
}

// Assign resolves the requested names against the registry and runs the
// optimizer over the valid pool.
func (e *engine) Assign(ctx context.Context, names []string, opts ...AssignOption) (*AssignResult, error) {
	options := &assignOptions{}
	for _, o := range opts {
		o(options)
	}

	e.mu.RLock()
	g, caps, closed := e.g, e.caps, e.closed
	e.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(options.capacities) > 0 {
		caps = partition.Capacities(options.capacities)
	}

	// Resolve requested spellings case-insensitively. Unknown names are
	// collected rather than failing the run; duplicates keep their first
	// occurrence.
	var (
		pool    []int
		unknown []string
	)
	seen := make(map[int]bool, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		v, ok := g.Resolve(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		pool = append(pool, v)
	}

	seed := e.cfg.Seed
	if options.seedSet {
		seed = options.seed
	}
	if seed == 0 {
		drawn, err := partition.RandomSeed()
		if err != nil {
			return nil, fmt.Errorf("drawing seed: %w", err)
		}
		seed = drawn
	}

	trials := e.cfg.Trials
	if options.trials > 0 {
		trials = options.trials
	}

	opt := partition.Optimizer{
		Graph:          g,
		Caps:           caps,
		Policy:         e.policy,
		Trials:         trials,
		MaxStale:       e.cfg.MaxStale,
		RefinePasses:   e.cfg.RefinePasses,
		SmallExcess:    e.cfg.SmallExcess,
		TopK:           e.cfg.TopK,
		OverflowTrials: e.cfg.OverflowTrials,
	}

	start := time.Now()
	res, err := opt.Solve(pool, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	groups := make([][]string, len(res.Groups))
	for i, group := range res.Groups {
		groups[i] = make([]string, len(group))
		for j, v := range group {
			groups[i][j] = g.Canonical(v)
		}
	}

	elapsed := time.Since(start)
	e.assigns.Add(1)
	e.metrics.ObserveSolve(elapsed, res.Score, res.Trials, len(pool))
	if res.Dropped > 0 {
		e.metrics.ObserveOverflow(res.Dropped)
	}
	slog.Info("assign: complete",
		"candidates", len(pool), "score", res.Score, "trials", res.Trials,
		"dropped", res.Dropped, "unknown", len(unknown), "seed", seed,
		"elapsed", elapsed.Round(time.Millisecond))

	return &AssignResult{
		Groups:     groups,
		Capacities: append([]int(nil), caps...),
		Score:      res.Score,
		Unknown:    unknown,
		Dropped:    res.Dropped,
		Trials:     res.Trials,
		Seed:       seed,
	}, nil
}

// Resolve maps a case-insensitive spelling to its canonical name.
func (e *engine) Resolve(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.g.Resolve(name)
	if !ok {
		return "", false
	}
	return e.g.Canonical(v), true
}

// Suggest returns up to limit canonical names containing the query,
// matched case-insensitively. An empty query lists from the top of the
// registry.
func (e *engine) Suggest(query string, limit int) []string {
	if limit <= 0 {
		limit = e.cfg.SuggestLimit
	}
	if limit <= 0 {
		limit = 10
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	fold := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, name := range e.g.Names() {
		if !strings.Contains(strings.ToLower(name), fold) {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Names returns every canonical name in the registry.
func (e *engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Names()
}

// Stats reports registry and run counters.
func (e *engine) Stats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	return &Stats{
		Dataset:    e.dataset,
		Names:      e.g.Len(),
		Edges:      e.g.Edges(),
		Capacities: append([]int(nil), e.caps...),
		Assigns:    e.assigns.Load(),
	}, nil
}

// Close marks the engine closed.
func (e *engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}
