package layout

import (
	"testing"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// tree builds a consistent hierarchy from parent → children pairs given in
// document order.
func tree(t *testing.T, links ...hierarchy.LinkRequest) *hierarchy.Hierarchy {
	t.Helper()
	h := hierarchy.New()
	for _, l := range links {
		var err error
		if h, err = hierarchy.Merge(h, l); err != nil {
			t.Fatalf("Merge(%v): %v", l, err)
		}
	}
	return h
}

func link(parent string, children ...string) hierarchy.LinkRequest {
	return hierarchy.LinkRequest{ParentID: parent, ChildIDs: children}
}

func raw(t *testing.T, nodes ...hierarchy.Node) *hierarchy.Hierarchy {
	t.Helper()
	h := hierarchy.New()
	for _, n := range nodes {
		if err := h.AddNode(n); err != nil {
			t.Fatalf("AddNode(%q): %v", n.ID, err)
		}
	}
	return h
}
