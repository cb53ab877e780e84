package hierarchy

import (
	"errors"
	"fmt"
	"slices"
)

// ErrSelfLink is returned by [Merge] when a request lists the parent among
// its own children.
var ErrSelfLink = errors.New("node cannot be its own child")

// LinkRequest asks for one parent to gain a set of children.
// Empty child IDs are ignored, matching a form whose unused fields were left
// blank.
type LinkRequest struct {
	ParentID string   `json:"parent"`
	ChildIDs []string `json:"children"`
}

// Merge returns a copy of h with req applied.
//
// Missing nodes are created with empty relations and appended to the document
// order (parent first, then children in request order). For every non-empty
// child, the parent is appended to the child's parents and the child to the
// parent's children, each only if not already present. Existing order is
// never changed, so merging the same request twice is a no-op.
//
// Returns ErrInvalidNodeID if ParentID is empty and ErrSelfLink if a child ID
// equals ParentID. h is never modified.
func Merge(h *Hierarchy, req LinkRequest) (*Hierarchy, error) {
	if req.ParentID == "" {
		return nil, ErrInvalidNodeID
	}
	if slices.Contains(req.ChildIDs, req.ParentID) {
		return nil, fmt.Errorf("%w: %q", ErrSelfLink, req.ParentID)
	}

	out := h.Clone()
	parent := out.ensure(req.ParentID)
	for _, childID := range req.ChildIDs {
		if childID == "" {
			continue
		}
		child := out.ensure(childID)
		if !slices.Contains(child.Parents, req.ParentID) {
			child.Parents = append(child.Parents, req.ParentID)
		}
		if !slices.Contains(parent.Children, childID) {
			parent.Children = append(parent.Children, childID)
		}
	}
	return out, nil
}

// Unlink returns a copy of h without the parent → child relation.
//
// Both nodes are kept; only the entries in the parent's children list and the
// child's parents list are removed. A child that loses its last parent
// becomes a root. Returns an error wrapping ErrUnknownNode if either node is
// missing. Removing a relation that does not exist is not an error.
func Unlink(h *Hierarchy, parentID, childID string) (*Hierarchy, error) {
	if !h.Has(parentID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, parentID)
	}
	if !h.Has(childID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, childID)
	}

	out := h.Clone()
	parent, child := out.nodes[parentID], out.nodes[childID]
	parent.Children = slices.DeleteFunc(parent.Children, func(id string) bool { return id == childID })
	child.Parents = slices.DeleteFunc(child.Parents, func(id string) bool { return id == parentID })
	return out, nil
}

// ensure returns the node with the given ID, creating an empty one at the
// end of the document order if it does not exist.
func (h *Hierarchy) ensure(id string) *Node {
	if n, ok := h.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Parents: []string{}, Children: []string{}}
	h.nodes[id] = n
	h.order = append(h.order, id)
	return n
}
