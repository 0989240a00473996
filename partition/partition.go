// Package partition implements the constrained grouping optimizer. It places
// candidate entities into capacity-bounded groups so that as many
// relationship edges as possible have both endpoints inside the same group.
//
// A solve is a pure function of the graph, the capacities, the candidate
// order and the seeded random source: identical inputs produce identical
// output. The package performs no I/O and holds no state across solves.
package partition

import (
	"errors"

	"github.com/mickey530447/dream-and-lethe/graph"
)

// ErrInvalidCapacities is returned when a capacity list is empty or contains
// a non-positive group size.
var ErrInvalidCapacities = errors.New("partition: capacities must be a non-empty list of positive group sizes")

// Capacities is the ordered list of group sizes, one per group.
type Capacities []int

// Validate rejects degenerate capacity lists before any work begins.
func (c Capacities) Validate() error {
	if len(c) == 0 {
		return ErrInvalidCapacities
	}
	for _, size := range c {
		if size <= 0 {
			return ErrInvalidCapacities
		}
	}
	return nil
}

// Total returns the combined size of all groups.
func (c Capacities) Total() int {
	total := 0
	for _, size := range c {
		total += size
	}
	return total
}

// Assignment is one full placement of candidates into groups. Groups[i]
// holds entity indices and never grows past the capacity at the same
// position.
type Assignment struct {
	Groups [][]int
}

// NewAssignment returns an empty assignment shaped after caps.
func NewAssignment(caps Capacities) *Assignment {
	groups := make([][]int, len(caps))
	for i := range groups {
		groups[i] = make([]int, 0, caps[i])
	}
	return &Assignment{Groups: groups}
}

// Clone deep-copies the assignment.
func (a *Assignment) Clone() *Assignment {
	groups := make([][]int, len(a.Groups))
	for i, members := range a.Groups {
		groups[i] = make([]int, len(members), cap(members))
		copy(groups[i], members)
	}
	return &Assignment{Groups: groups}
}

// Size returns the number of assigned entities.
func (a *Assignment) Size() int {
	n := 0
	for _, members := range a.Groups {
		n += len(members)
	}
	return n
}

// Members returns every assigned entity index in group order.
func (a *Assignment) Members() []int {
	out := make([]int, 0, a.Size())
	for _, members := range a.Groups {
		out = append(out, members...)
	}
	return out
}

// Score counts the relationship edges fully contained in a single group.
// It is always computed fresh from the graph and the current groups; nothing
// is cached, so mutating the assignment cannot leave a stale score behind.
func (a *Assignment) Score(g *graph.Graph) int {
	total := 0
	for _, members := range a.Groups {
		total += g.ConnectionsWithin(members)
	}
	return total
}
