package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/radialtree/pkg/geom"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// Default layout constants.
const (
	// DefaultRadiusScale is the radius growth per depth level.
	DefaultRadiusScale = 0.9

	// DefaultSpread is the total arc, in radians, shared by a sibling group.
	DefaultSpread = math.Pi / 4
)

// Options configures the radial layout and its arrowhead markers.
type Options struct {
	RadiusScale float64           `json:"radius_scale"`
	Spread      float64           `json:"spread"`
	Arrow       geom.ArrowOptions `json:"arrow"`
}

// DefaultOptions returns the layout used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RadiusScale: DefaultRadiusScale,
		Spread:      DefaultSpread,
		Arrow:       geom.DefaultArrowOptions(),
	}
}

// Radial is the output of [ComputePositions].
type Radial struct {
	// MaxLevel is the greatest assigned depth. Roots sit at z = MaxLevel.
	MaxLevel int

	// Positions holds one point per node that has a level.
	Positions map[string]geom.Vec3

	// Angles holds the angle, in radians, used for each placed node. For
	// roots it is the reference angle that seeds their children.
	Angles map[string]float64

	// Disconnected lists nodes without a level, in document order. They have
	// no position.
	Disconnected []string
}

// ComputePositions converts levels into 3D coordinates.
//
// Roots at depth 0 are placed at (0, 0, maxLevel) and given reference angles
// 2π·i/rootCount. All other nodes with a level are processed by increasing
// depth, in document order within a depth. A node's angle comes from its
// parent of record (the first parents entry):
//
//   - no parent of record: angle 0
//   - parent not placed at a smaller depth: angle 0
//   - node missing from the parent's children list: the parent's angle
//   - one sibling: the parent's angle
//   - k > 1 siblings: parentAngle − Spread/2 + Spread·index/(k−1)
//
// and its position is (r·cos θ, r·sin θ, maxLevel − depth) with
// r = RadiusScale·depth.
//
// A parent of record at the same depth as the node also yields angle 0,
// even when that parent comes earlier in document order and already has an
// angle. Placement within a depth therefore never depends on processing
// order.
//
// Returns an error wrapping [hierarchy.ErrUnknownNode] if levels names a node
// that h does not contain, or an error if a level is negative.
func ComputePositions(h *hierarchy.Hierarchy, levels Levels, opts Options) (*Radial, error) {
	for id, depth := range levels {
		if !h.Has(id) {
			return nil, fmt.Errorf("%w: level assigned to %q", hierarchy.ErrUnknownNode, id)
		}
		if depth < 0 {
			return nil, fmt.Errorf("negative level %d for %q", depth, id)
		}
	}

	maxLevel := levels.Max()
	out := &Radial{
		MaxLevel:  maxLevel,
		Positions: make(map[string]geom.Vec3, len(levels)),
		Angles:    make(map[string]float64, len(levels)),
	}

	var roots []string
	byDepth := make([][]string, maxLevel+1)
	for _, id := range h.IDs() {
		depth, ok := levels[id]
		if !ok {
			out.Disconnected = append(out.Disconnected, id)
			continue
		}
		n, _ := h.Node(id)
		if depth == 0 && n.IsRoot() {
			roots = append(roots, id)
			continue
		}
		byDepth[depth] = append(byDepth[depth], id)
	}

	center := geom.V(0, 0, float64(maxLevel))
	for i, r := range roots {
		out.Positions[r] = center
		out.Angles[r] = 2 * math.Pi * float64(i) / float64(len(roots))
	}

	for depth, ids := range byDepth {
		radius := opts.RadiusScale * float64(depth)
		z := float64(maxLevel - depth)
		for _, id := range ids {
			angle := out.angleOf(h, levels, id, depth, opts.Spread)
			out.Angles[id] = angle
			out.Positions[id] = geom.V(radius*math.Cos(angle), radius*math.Sin(angle), z)
		}
	}

	return out, nil
}

// angleOf applies the sibling spread rule for one non-root node.
func (r *Radial) angleOf(h *hierarchy.Hierarchy, levels Levels, id string, depth int, spread float64) float64 {
	n, _ := h.Node(id)
	parent, ok := n.ParentOfRecord()
	if !ok {
		return 0
	}
	parentAngle, placed := r.Angles[parent]
	if !placed || levels[parent] >= depth {
		return 0
	}

	siblings := h.Children(parent)
	index := slices.Index(siblings, id)
	if index < 0 || len(siblings) < 2 {
		return parentAngle
	}
	return parentAngle - spread/2 + spread*float64(index)/float64(len(siblings)-1)
}
