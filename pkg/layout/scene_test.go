package layout

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		h        *hierarchy.Hierarchy
		code     errs.Code
		sentinel error
	}{
		{
			name: "no root",
			h: raw(t,
				hierarchy.Node{ID: "a", Parents: []string{"b"}, Children: []string{"b"}},
				hierarchy.Node{ID: "b", Parents: []string{"a"}, Children: []string{"a"}},
			),
			code:     errs.ErrCodeNoRoot,
			sentinel: ErrNoRoot,
		},
		{
			name:     "unknown child",
			h:        raw(t, hierarchy.Node{ID: "a", Children: []string{"ghost"}}),
			code:     errs.ErrCodeMalformedSnapshot,
			sentinel: hierarchy.ErrUnknownNode,
		},
		{
			name:     "unknown parent",
			h:        raw(t, hierarchy.Node{ID: "a"}, hierarchy.Node{ID: "b", Parents: []string{"ghost"}}),
			code:     errs.ErrCodeMalformedSnapshot,
			sentinel: hierarchy.ErrUnknownNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.h, DefaultOptions())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %q, want %q", errs.GetCode(err), tt.code)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	s, err := Build(hierarchy.New(), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Nodes) != 0 || len(s.Segments) != 0 || len(s.Arrows) != 0 {
		t.Errorf("empty hierarchy produced %d nodes, %d segments, %d arrows", len(s.Nodes), len(s.Segments), len(s.Arrows))
	}
}

func TestBuildCounts(t *testing.T) {
	h := tree(t, link("r", "a", "b"), link("a", "c", "d"), link("b", "d"))
	s, err := Build(h, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(s.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(s.Nodes))
	}
	if len(s.Segments) != h.EdgeCount() {
		t.Errorf("segments = %d, want %d", len(s.Segments), h.EdgeCount())
	}
	if len(s.Arrows) != h.EdgeCount() {
		t.Errorf("arrows = %d, want %d", len(s.Arrows), h.EdgeCount())
	}
	if len(s.Skipped) != 0 {
		t.Errorf("skipped = %v, want none", s.Skipped)
	}

	wantOrder := []string{"r", "a", "b", "c", "d"}
	for i, n := range s.Nodes {
		if n.ID != wantOrder[i] {
			t.Errorf("Nodes[%d] = %s, want %s", i, n.ID, wantOrder[i])
		}
	}
}

func TestBuildArrowPointsAtParent(t *testing.T) {
	h := tree(t, link("A", "B", "C"), link("B", "D"))
	opts := DefaultOptions()
	s, err := Build(h, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, a := range s.Arrows {
		parent, _ := s.Node(a.Parent)
		child, _ := s.Node(a.Child)

		if d := a.Tip.Dist(parent.Pos); math.Abs(d-opts.Arrow.Offset) > 1e-9 {
			t.Errorf("%s->%s: |tip - parent| = %v, want %v", a.Child, a.Parent, d, opts.Arrow.Offset)
		}
		if a.Tip.Dist(parent.Pos) >= a.Tip.Dist(child.Pos) {
			t.Errorf("%s->%s: tip is closer to the child than to the parent", a.Child, a.Parent)
		}
	}

	for _, sg := range s.Segments {
		parent, _ := s.Node(sg.Parent)
		child, _ := s.Node(sg.Child)
		if sg.From != parent.Pos || sg.To != child.Pos {
			t.Errorf("segment %s->%s endpoints do not match node positions", sg.Parent, sg.Child)
		}
	}
}

func TestBuildDisconnected(t *testing.T) {
	h := raw(t,
		hierarchy.Node{ID: "r", Children: []string{"a"}},
		hierarchy.Node{ID: "a", Parents: []string{"r"}},
		hierarchy.Node{ID: "x", Parents: []string{"y"}, Children: []string{"y"}},
		hierarchy.Node{ID: "y", Parents: []string{"x"}, Children: []string{"x"}},
	)
	s, err := Build(h, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := s.Node("x"); ok {
		t.Error("disconnected node x was placed")
	}
	if len(s.Disconnected) != 2 {
		t.Errorf("Disconnected = %v, want [x y]", s.Disconnected)
	}
	if len(s.Segments) != 1 || len(s.Arrows) != 1 {
		t.Errorf("segments=%d arrows=%d, want 1 and 1", len(s.Segments), len(s.Arrows))
	}
	if len(s.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", s.Skipped)
	}
	for _, sk := range s.Skipped {
		if sk.Reason != SkipDisconnected {
			t.Errorf("skip reason = %q, want %q", sk.Reason, SkipDisconnected)
		}
	}
}

func TestBuildDegenerateEdge(t *testing.T) {
	// With zero radius growth every node of a depth sits on the z axis.
	h := raw(t,
		hierarchy.Node{ID: "r", Children: []string{"a", "b"}},
		hierarchy.Node{ID: "a", Parents: []string{"r"}, Children: []string{"b"}},
		hierarchy.Node{ID: "b", Parents: []string{"r", "a"}},
	)
	opts := DefaultOptions()
	opts.RadiusScale = 0
	s, err := Build(h, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// a and b both sit at depth 1 on the axis: the a->b edge is degenerate.
	if len(s.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(s.Segments))
	}
	if len(s.Arrows) != 2 {
		t.Errorf("arrows = %d, want 2", len(s.Arrows))
	}
	if len(s.Skipped) != 1 || s.Skipped[0] != (SkippedEdge{Parent: "a", Child: "b", Reason: SkipDegenerate}) {
		t.Errorf("Skipped = %v, want a->b degenerate", s.Skipped)
	}
}

func TestBuildDeterministic(t *testing.T) {
	links := []hierarchy.LinkRequest{
		link("r", "a", "b", "c"),
		link("a", "d", "e"),
		link("c", "f"),
		link("q", "f", "g"),
	}
	first, err := Build(tree(t, links...), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(tree(t, links...), DefaultOptions())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if again.Fingerprint() != first.Fingerprint() {
			t.Fatalf("run %d: fingerprint %s, want %s", i, again.Fingerprint(), first.Fingerprint())
		}
		for j := range first.Nodes {
			if again.Nodes[j] != first.Nodes[j] {
				t.Fatalf("run %d: node %d differs: %+v vs %+v", i, j, again.Nodes[j], first.Nodes[j])
			}
		}
	}
}

func TestFingerprintChangesWithOptions(t *testing.T) {
	h := tree(t, link("r", "a", "b"))
	a, err := Build(h, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Spread = math.Pi / 2
	b, err := Build(h, opts)
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different spreads produced the same fingerprint")
	}
	if len(a.Fingerprint()) != 16 {
		t.Errorf("fingerprint %q is not 16 hex digits", a.Fingerprint())
	}
}

func TestSceneNodeAfterDecode(t *testing.T) {
	s, err := Build(tree(t, link("r", "a")), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Scene
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	want, _ := s.Node("a")
	got, ok := decoded.Node("a")
	if !ok || got != want {
		t.Errorf("decoded Node(a) = %+v, %v; want %+v", got, ok, want)
	}
	if decoded.Fingerprint() != s.Fingerprint() {
		t.Error("fingerprint changed across JSON round trip")
	}
}
