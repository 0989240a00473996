package dreamlethe

import (
	"fmt"
	"strings"
)

// Render formats an assignment result as human-readable text, one group
// per line followed by the totals.
func Render(res *AssignResult) string {
	var b strings.Builder
	for i, group := range res.Groups {
		limit := 0
		if i < len(res.Capacities) {
			limit = res.Capacities[i]
		}
		fmt.Fprintf(&b, "House %d (%d/%d): ", i+1, len(group), limit)
		if len(group) == 0 {
			b.WriteString("(empty)")
		} else {
			b.WriteString(strings.Join(group, ", "))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Total connections: %d\n", res.Score)
	if res.Dropped > 0 {
		fmt.Fprintf(&b, "Left out by capacity: %d\n", res.Dropped)
	}
	if len(res.Unknown) > 0 {
		fmt.Fprintf(&b, "Unknown names: %s\n", strings.Join(res.Unknown, ", "))
	}
	return b.String()
}
