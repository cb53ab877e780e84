package layout

import (
	"errors"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// ErrNoRoot is returned by [AssignLevels] when a non-empty hierarchy has no
// node with an empty parents list.
var ErrNoRoot = errors.New("hierarchy has no root")

// Levels maps node IDs to their breadth-first depth. Roots have depth 0.
type Levels map[string]int

// Max returns the greatest depth, or 0 for empty levels.
func (l Levels) Max() int {
	maxLevel := 0
	for _, d := range l {
		if d > maxLevel {
			maxLevel = d
		}
	}
	return maxLevel
}

// AssignLevels computes the depth of every node reachable from a root.
//
// It runs a multi-source breadth-first traversal seeded with all roots at
// depth 0, in document order. A node's depth is the depth at which it is
// first dequeued; later rediscoveries (through a second parent or a cycle)
// are skipped, which also guarantees termination.
//
// Nodes unreachable from any root get no entry. An empty hierarchy yields
// empty levels. Returns ErrNoRoot when h has nodes but no root, and an error
// wrapping [hierarchy.ErrUnknownNode] when h is inconsistent.
//
// Time complexity is O(V + E).
func AssignLevels(h *hierarchy.Hierarchy) (Levels, error) {
	levels := make(Levels, h.Len())
	if h.Len() == 0 {
		return levels, nil
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	roots := h.Roots()
	if len(roots) == 0 {
		return nil, ErrNoRoot
	}

	type item struct {
		id    string
		depth int
	}
	queue := make([]item, 0, h.Len())
	for _, r := range roots {
		queue = append(queue, item{r, 0})
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if _, seen := levels[curr.id]; seen {
			continue
		}
		levels[curr.id] = curr.depth

		for _, child := range h.Children(curr.id) {
			if _, seen := levels[child]; !seen {
				queue = append(queue, item{child, curr.depth + 1})
			}
		}
	}

	return levels, nil
}
