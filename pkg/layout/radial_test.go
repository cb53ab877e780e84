package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/radialtree/pkg/geom"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

const eps = 1e-12

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func positions(t *testing.T, h *hierarchy.Hierarchy, opts Options) *Radial {
	t.Helper()
	levels, err := AssignLevels(h)
	if err != nil {
		t.Fatalf("AssignLevels: %v", err)
	}
	r, err := ComputePositions(h, levels, opts)
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	return r
}

func TestComputePositionsExample(t *testing.T) {
	r := positions(t, tree(t, link("A", "B", "C")), DefaultOptions())

	if r.MaxLevel != 1 {
		t.Fatalf("MaxLevel = %d, want 1", r.MaxLevel)
	}
	if got := r.Positions["A"]; got != geom.V(0, 0, 1) {
		t.Errorf("A = %v, want (0, 0, 1)", got)
	}

	for _, id := range []string{"B", "C"} {
		p := r.Positions[id]
		if p.Z != 0 {
			t.Errorf("%s.z = %v, want 0", id, p.Z)
		}
		if radius := math.Hypot(p.X, p.Y); !near(radius, 0.9) {
			t.Errorf("%s radius = %v, want 0.9", id, radius)
		}
	}

	// Symmetric around A's reference angle (0).
	if !near(r.Angles["B"], -math.Pi/8) || !near(r.Angles["C"], math.Pi/8) {
		t.Errorf("angles B=%v C=%v, want ∓π/8", r.Angles["B"], r.Angles["C"])
	}
	if !near(r.Angles["B"]+r.Angles["C"], 2*r.Angles["A"]) {
		t.Errorf("B and C not symmetric around A")
	}
}

func TestRootsShareCenter(t *testing.T) {
	h := tree(t, link("r1", "a"), link("r2", "b"), link("r3", "c"), link("c", "d"))
	r := positions(t, h, DefaultOptions())

	center := geom.V(0, 0, float64(r.MaxLevel))
	for i, id := range []string{"r1", "r2", "r3"} {
		if got := r.Positions[id]; got != center {
			t.Errorf("%s = %v, want %v", id, got, center)
		}
		if want := 2 * math.Pi * float64(i) / 3; !near(r.Angles[id], want) {
			t.Errorf("angle[%s] = %v, want %v", id, r.Angles[id], want)
		}
	}
}

func TestSingleChildInheritsAngle(t *testing.T) {
	h := tree(t, link("r1", "x"), link("r2", "a"), link("a", "b"), link("b", "c"))
	r := positions(t, h, DefaultOptions())

	// r2 is the second of two roots, so its reference angle is π.
	for _, pair := range [][2]string{{"r2", "a"}, {"a", "b"}, {"b", "c"}} {
		if r.Angles[pair[1]] != r.Angles[pair[0]] {
			t.Errorf("angle[%s] = %v, want parent %s angle %v", pair[1], r.Angles[pair[1]], pair[0], r.Angles[pair[0]])
		}
	}
	if r.Angles["c"] != math.Pi {
		t.Errorf("angle[c] = %v, want π", r.Angles["c"])
	}
}

func TestSiblingOrderIsMonotonic(t *testing.T) {
	h := tree(t, link("r", "p"), link("p", "A", "B", "C", "D"))
	opts := DefaultOptions()
	r := positions(t, h, opts)

	ids := []string{"A", "B", "C", "D"}
	for i := 1; i < len(ids); i++ {
		if r.Angles[ids[i]] <= r.Angles[ids[i-1]] {
			t.Errorf("angle[%s]=%v not greater than angle[%s]=%v", ids[i], r.Angles[ids[i]], ids[i-1], r.Angles[ids[i-1]])
		}
	}
	if got := r.Angles["D"] - r.Angles["A"]; !near(got, opts.Spread) {
		t.Errorf("total spread = %v, want %v", got, opts.Spread)
	}
	mid := (r.Angles["A"] + r.Angles["D"]) / 2
	if !near(mid, r.Angles["p"]) {
		t.Errorf("spread centered at %v, want parent angle %v", mid, r.Angles["p"])
	}
}

func TestRadiusAndHeight(t *testing.T) {
	h := tree(t, link("r", "a"), link("a", "b"), link("b", "c"))
	opts := DefaultOptions()
	opts.RadiusScale = 2
	r := positions(t, h, opts)

	for depth, id := range []string{"r", "a", "b", "c"} {
		p := r.Positions[id]
		if got := math.Hypot(p.X, p.Y); !near(got, 2*float64(depth)) {
			t.Errorf("radius[%s] = %v, want %v", id, got, 2*depth)
		}
		if got := p.Z; got != float64(3-depth) {
			t.Errorf("z[%s] = %v, want %v", id, got, 3-depth)
		}
	}
}

func TestParentOfRecordGovernsAngle(t *testing.T) {
	// m has parents [a, b]; only a, the first, governs its angle.
	h := tree(t, link("r", "a", "b"), link("a", "m"), link("b", "m", "n"))
	r := positions(t, h, DefaultOptions())

	if r.Angles["m"] != r.Angles["a"] {
		t.Errorf("angle[m] = %v, want parent of record a's angle %v", r.Angles["m"], r.Angles["a"])
	}
}

func TestParentlessNodeAtDepthUsesZeroAngle(t *testing.T) {
	// A caller-supplied level places the parentless node q at depth 2.
	h := raw(t,
		hierarchy.Node{ID: "r", Children: []string{"a"}},
		hierarchy.Node{ID: "a", Parents: []string{"r"}},
		hierarchy.Node{ID: "q"},
	)
	levels := Levels{"r": 0, "a": 1, "q": 2}

	r, err := ComputePositions(h, levels, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputePositions: %v", err)
	}
	if r.Angles["q"] != 0 {
		t.Errorf("angle[q] = %v, want 0", r.Angles["q"])
	}
	if got := r.Positions["q"]; !near(got.X, 1.8) || got.Y != 0 || got.Z != 0 {
		t.Errorf("q = %v, want (1.8, 0, 0)", got)
	}
}

func TestDeeperParentOfRecordFallsBackToZero(t *testing.T) {
	// c is discovered at depth 1 through root q, but its parent of record p
	// sits at depth 2, so p's angle is not available when c is placed.
	h := raw(t,
		hierarchy.Node{ID: "r", Children: []string{"x"}},
		hierarchy.Node{ID: "x", Parents: []string{"r"}, Children: []string{"p"}},
		hierarchy.Node{ID: "p", Parents: []string{"x"}, Children: []string{"c"}},
		hierarchy.Node{ID: "q", Children: []string{"c"}},
		hierarchy.Node{ID: "c", Parents: []string{"p", "q"}},
	)
	r := positions(t, h, DefaultOptions())

	if r.Angles["c"] != 0 {
		t.Errorf("angle[c] = %v, want fallback 0", r.Angles["c"])
	}
}

func TestSameDepthParentOfRecordFallsBackToZero(t *testing.T) {
	// b is reached from r at depth 1, but its parent of record a is also at
	// depth 1 and precedes it in document order.
	h := raw(t,
		hierarchy.Node{ID: "r", Children: []string{"a", "b"}},
		hierarchy.Node{ID: "a", Parents: []string{"r"}, Children: []string{"b"}},
		hierarchy.Node{ID: "b", Parents: []string{"a", "r"}},
	)
	r := positions(t, h, DefaultOptions())

	if want := -DefaultSpread / 2; !near(r.Angles["a"], want) {
		t.Errorf("angle[a] = %v, want %v", r.Angles["a"], want)
	}
	if r.Angles["b"] != 0 {
		t.Errorf("angle[b] = %v, want fallback 0", r.Angles["b"])
	}
}

func TestDisconnectedExcluded(t *testing.T) {
	h := raw(t,
		hierarchy.Node{ID: "r"},
		hierarchy.Node{ID: "x", Parents: []string{"y"}, Children: []string{"y"}},
		hierarchy.Node{ID: "y", Parents: []string{"x"}, Children: []string{"x"}},
	)
	r := positions(t, h, DefaultOptions())

	if _, ok := r.Positions["x"]; ok {
		t.Error("disconnected node x has a position")
	}
	if len(r.Disconnected) != 2 || r.Disconnected[0] != "x" || r.Disconnected[1] != "y" {
		t.Errorf("Disconnected = %v, want [x y]", r.Disconnected)
	}
}

func TestComputePositionsUnknownLevel(t *testing.T) {
	h := tree(t, link("r", "a"))
	_, err := ComputePositions(h, Levels{"r": 0, "ghost": 1}, DefaultOptions())
	if !errors.Is(err, hierarchy.ErrUnknownNode) {
		t.Errorf("error = %v, want ErrUnknownNode", err)
	}

	if _, err := ComputePositions(h, Levels{"r": -1}, DefaultOptions()); err == nil {
		t.Error("negative level should fail")
	}
}
