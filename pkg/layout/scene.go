package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/geom"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// Reasons recorded in [SkippedEdge].
const (
	SkipDisconnected = "disconnected" // an endpoint has no position
	SkipDegenerate   = "degenerate"   // endpoints coincide, no arrowhead
)

// Scene is the complete geometry of one layout pass, ready for a render
// surface. It is built once and never mutated afterwards.
type Scene struct {
	MaxLevel     int           `json:"max_level"`
	Nodes        []PlacedNode  `json:"nodes"`
	Segments     []Segment     `json:"segments"`
	Arrows       []Arrow       `json:"arrows"`
	Disconnected []string      `json:"disconnected,omitempty"`
	Skipped      []SkippedEdge `json:"skipped,omitempty"`

	index map[string]int
}

// PlacedNode is a node with its computed depth, angle and position.
type PlacedNode struct {
	ID    string    `json:"id"`
	Depth int       `json:"depth"`
	Angle float64   `json:"angle"`
	Pos   geom.Vec3 `json:"pos"`
}

// Segment is the line drawn for one parent → child relation.
type Segment struct {
	Parent string    `json:"parent"`
	Child  string    `json:"child"`
	From   geom.Vec3 `json:"from"` // parent position
	To     geom.Vec3 `json:"to"`   // child position
}

// Arrow is the direction marker of one edge. The triangle points from the
// child toward the parent.
type Arrow struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
	geom.Triangle
}

// SkippedEdge records an edge that could not be fully drawn.
type SkippedEdge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
	Reason string `json:"reason"`
}

// Build lays out h and assembles the scene.
//
// Errors are coded with [errs.ErrCodeMalformedSnapshot] when h references
// unknown nodes and [errs.ErrCodeNoRoot] when it has nodes but no root. Both
// wrap the underlying sentinel ([hierarchy.ErrUnknownNode], [ErrNoRoot]).
//
// Nodes appear in document order. Segments and arrows follow
// [hierarchy.Hierarchy.Edges]. An edge with an unplaced endpoint is skipped
// entirely; an edge with coinciding endpoints keeps its segment and loses its
// arrow.
func Build(h *hierarchy.Hierarchy, opts Options) (*Scene, error) {
	if err := h.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "hierarchy is inconsistent")
	}

	levels, err := AssignLevels(h)
	if errors.Is(err, ErrNoRoot) {
		return nil, errs.Wrap(errs.ErrCodeNoRoot, err, "cannot seed levels for %d nodes", h.Len())
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "assign levels")
	}

	radial, err := ComputePositions(h, levels, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "compute positions")
	}

	s := &Scene{
		MaxLevel:     radial.MaxLevel,
		Nodes:        make([]PlacedNode, 0, len(radial.Positions)),
		Segments:     []Segment{},
		Arrows:       []Arrow{},
		Disconnected: radial.Disconnected,
		index:        make(map[string]int, len(radial.Positions)),
	}
	for _, id := range h.IDs() {
		pos, ok := radial.Positions[id]
		if !ok {
			continue
		}
		s.index[id] = len(s.Nodes)
		s.Nodes = append(s.Nodes, PlacedNode{ID: id, Depth: levels[id], Angle: radial.Angles[id], Pos: pos})
	}

	for _, e := range h.Edges() {
		parentPos, okParent := radial.Positions[e.Parent]
		childPos, okChild := radial.Positions[e.Child]
		if !okParent || !okChild {
			s.Skipped = append(s.Skipped, SkippedEdge{Parent: e.Parent, Child: e.Child, Reason: SkipDisconnected})
			continue
		}

		s.Segments = append(s.Segments, Segment{Parent: e.Parent, Child: e.Child, From: parentPos, To: childPos})

		tri, err := geom.Arrowhead(childPos, parentPos, opts.Arrow)
		if errors.Is(err, geom.ErrDegenerateEdge) {
			s.Skipped = append(s.Skipped, SkippedEdge{Parent: e.Parent, Child: e.Child, Reason: SkipDegenerate})
			continue
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "arrowhead %s->%s", e.Child, e.Parent)
		}
		s.Arrows = append(s.Arrows, Arrow{Parent: e.Parent, Child: e.Child, Triangle: tri})
	}

	return s, nil
}

// Node returns the placed node with the given ID.
func (s *Scene) Node(id string) (PlacedNode, bool) {
	if s.index == nil {
		// Scenes decoded from JSON carry no index.
		for _, n := range s.Nodes {
			if n.ID == id {
				return n, true
			}
		}
		return PlacedNode{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return PlacedNode{}, false
	}
	return s.Nodes[i], true
}

// Positions returns the node → position stream consumed by renderers.
func (s *Scene) Positions() map[string]geom.Vec3 {
	out := make(map[string]geom.Vec3, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n.Pos
	}
	return out
}

// Fingerprint returns a 64-bit hash, in hex, of every ID and coordinate in
// the scene. Two scenes with the same fingerprint are bit-identical for
// rendering purposes.
func (s *Scene) Fingerprint() string {
	d := xxhash.New()
	var buf []byte
	str := func(v string) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(len(v)))
		_, _ = d.Write(buf)
		_, _ = d.WriteString(v)
	}
	f := func(vs ...float64) {
		buf = buf[:0]
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		_, _ = d.Write(buf)
	}
	vec := func(v geom.Vec3) { f(v.X, v.Y, v.Z) }

	f(float64(s.MaxLevel))
	for _, n := range s.Nodes {
		str(n.ID)
		f(float64(n.Depth), n.Angle)
		vec(n.Pos)
	}
	for _, sg := range s.Segments {
		str(sg.Parent)
		str(sg.Child)
	}
	for _, a := range s.Arrows {
		vec(a.Tip)
		vec(a.Base1)
		vec(a.Base2)
	}
	for _, id := range s.Disconnected {
		str(id)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
