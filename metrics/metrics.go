// Package metrics defines the collector the engine and server report into,
// with a no-op default and a Prometheus-backed implementation.
package metrics

import "time"

// Collector receives observations from assignment runs, roster operations
// and HTTP traffic. Implementations must be safe for concurrent use.
type Collector interface {
	// ObserveSolve records one completed assignment run.
	ObserveSolve(d time.Duration, score, trials, candidates int)

	// ObserveOverflow records candidates dropped because the pool exceeded
	// total capacity.
	ObserveOverflow(dropped int)

	// ObserveRosterOp records a roster operation by name (add, remove, ...).
	ObserveRosterOp(op string)

	// ObserveHTTP records one handled HTTP request.
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Nop is a Collector that discards every observation.
type Nop struct{}

// Compile-time assertion that Nop implements Collector.
var _ Collector = Nop{}

func (Nop) ObserveSolve(time.Duration, int, int, int)     {}
func (Nop) ObserveOverflow(int)                           {}
func (Nop) ObserveRosterOp(string)                        {}
func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
