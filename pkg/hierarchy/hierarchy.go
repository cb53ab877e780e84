package hierarchy

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Hierarchy.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Hierarchy.AddNode] when a node with
	// the same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Hierarchy.Validate] when a parents or
	// children entry references a node that does not exist, and by [Unlink]
	// when either endpoint is missing.
	ErrUnknownNode = errors.New("unknown node")
)

// Node is one entry of the hierarchy.
//
// Parents and Children are ordered. Children order is the display order:
// the layout fans siblings out in exactly this order.
type Node struct {
	ID       string
	Parents  []string
	Children []string
}

// IsRoot reports whether the node has no recorded parent.
func (n Node) IsRoot() bool { return len(n.Parents) == 0 }

// ParentOfRecord returns the first parent, which is the only parent the
// layout honours. ok is false for roots.
func (n Node) ParentOfRecord() (id string, ok bool) {
	if len(n.Parents) == 0 {
		return "", false
	}
	return n.Parents[0], true
}

// Edge is a parent → child relation taken from a parent's children list.
type Edge struct {
	Parent string
	Child  string
}

// Hierarchy is an immutable-by-convention snapshot of named nodes.
//
// The zero value is not usable; create one with [New]. A Hierarchy is not
// safe for concurrent mutation, but concurrent readers are fine once it has
// been built.
type Hierarchy struct {
	nodes map[string]*Node
	order []string
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{nodes: make(map[string]*Node)}
}

// AddNode adds a node at the end of the document order.
// Returns ErrInvalidNodeID for an empty ID and ErrDuplicateNodeID if the ID
// is already present. The Parents and Children slices are copied.
func (h *Hierarchy) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := h.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	h.nodes[n.ID] = &Node{
		ID:       n.ID,
		Parents:  cloneIDs(n.Parents),
		Children: cloneIDs(n.Children),
	}
	h.order = append(h.order, n.ID)
	return nil
}

// Node returns the node with the given ID. The returned value shares its
// slices with the hierarchy and must be treated as read-only.
func (h *Hierarchy) Node(id string) (Node, bool) {
	n, ok := h.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether a node with the given ID exists.
func (h *Hierarchy) Has(id string) bool {
	_, ok := h.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// IDs returns all node IDs in document order.
func (h *Hierarchy) IDs() []string { return slices.Clone(h.order) }

// Parents returns the ordered parents of a node, or nil if the node does not
// exist. The slice is a read-only view.
func (h *Hierarchy) Parents(id string) []string {
	if n, ok := h.nodes[id]; ok {
		return n.Parents
	}
	return nil
}

// Children returns the ordered children of a node, or nil if the node does
// not exist. The slice is a read-only view.
func (h *Hierarchy) Children(id string) []string {
	if n, ok := h.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Roots returns the IDs of nodes with an empty parents list, in document
// order.
func (h *Hierarchy) Roots() []string {
	var roots []string
	for _, id := range h.order {
		if h.nodes[id].IsRoot() {
			roots = append(roots, id)
		}
	}
	return roots
}

// Edges returns every parent → child relation, walking parents in document
// order and each children list in its stored order.
func (h *Hierarchy) Edges() []Edge {
	var edges []Edge
	for _, id := range h.order {
		for _, c := range h.nodes[id].Children {
			edges = append(edges, Edge{Parent: id, Child: c})
		}
	}
	return edges
}

// EdgeCount returns the total length of all children lists.
func (h *Hierarchy) EdgeCount() int {
	count := 0
	for _, n := range h.nodes {
		count += len(n.Children)
	}
	return count
}

// Validate checks that every parents and children entry names an existing
// node. It returns nil for a consistent hierarchy, or an error wrapping
// ErrUnknownNode describing the first dangling reference in document order.
func (h *Hierarchy) Validate() error {
	for _, id := range h.order {
		n := h.nodes[id]
		for _, p := range n.Parents {
			if !h.Has(p) {
				return fmt.Errorf("%w: node %q lists parent %q", ErrUnknownNode, id, p)
			}
		}
		for _, c := range n.Children {
			if !h.Has(c) {
				return fmt.Errorf("%w: node %q lists child %q", ErrUnknownNode, id, c)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the hierarchy.
func (h *Hierarchy) Clone() *Hierarchy {
	out := &Hierarchy{
		nodes: make(map[string]*Node, len(h.nodes)),
		order: slices.Clone(h.order),
	}
	for id, n := range h.nodes {
		out.nodes[id] = &Node{
			ID:       n.ID,
			Parents:  cloneIDs(n.Parents),
			Children: cloneIDs(n.Children),
		}
	}
	return out
}

// cloneIDs copies a list of IDs, normalizing nil to an empty slice so that
// encoders write [] rather than null.
func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
