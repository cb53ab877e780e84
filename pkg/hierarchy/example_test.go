package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

func ExampleMerge() {
	h := hierarchy.New()
	h, _ = hierarchy.Merge(h, hierarchy.LinkRequest{ParentID: "A", ChildIDs: []string{"B", "C"}})
	h, _ = hierarchy.Merge(h, hierarchy.LinkRequest{ParentID: "B", ChildIDs: []string{"D"}})

	fmt.Println("Nodes:", h.IDs())
	fmt.Println("Roots:", h.Roots())
	fmt.Println("Children of A:", h.Children("A"))
	fmt.Println("Parents of D:", h.Parents("D"))
	// Output:
	// Nodes: [A B C D]
	// Roots: [A]
	// Children of A: [B C]
	// Parents of D: [B]
}
