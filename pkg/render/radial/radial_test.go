package radial

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
)

func testScene(t *testing.T) *layout.Scene {
	t.Helper()
	h, err := hierarchy.Merge(hierarchy.New(), hierarchy.LinkRequest{ParentID: "A", ChildIDs: []string{"B", "C"}})
	if err != nil {
		t.Fatal(err)
	}
	if h, err = hierarchy.Merge(h, hierarchy.LinkRequest{ParentID: "B", ChildIDs: []string{"D"}}); err != nil {
		t.Fatal(err)
	}
	s, err := layout.Build(h, layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestCameraBasisOrthonormal(t *testing.T) {
	for _, c := range []Camera{DefaultCamera(), {}, {Elevation: 90}, {Elevation: -20, Azimuth: 200}} {
		right, up, toward := c.Basis()
		for name, v := range map[string]float64{
			"|right|":      right.Norm(),
			"|up|":         up.Norm(),
			"|toward|":     toward.Norm(),
			"right·up":     right.Dot(up) + 1,
			"right·toward": right.Dot(toward) + 1,
			"up·toward":    up.Dot(toward) + 1,
		} {
			if math.Abs(v-1) > 1e-9 {
				t.Errorf("camera %+v: %s = %v", c, name, v-1)
			}
		}
	}
}

func TestViewportFitsBounds(t *testing.T) {
	s := testScene(t)
	r := newRenderer()
	for _, sh := range r.displayList(s) {
		for _, p := range sh.pts {
			if sh.kind == shapeLabel {
				continue
			}
			if p[0] < 0 || p[0] > float64(r.width) || p[1] < 0 || p[1] > float64(r.height) {
				t.Errorf("%s point %v outside %dx%d", sh.id, p, r.width, r.height)
			}
		}
	}
}

func TestDisplayListOrder(t *testing.T) {
	s := testScene(t)
	shapes := newRenderer().displayList(s)

	seenLabel := false
	last := math.Inf(-1)
	for _, sh := range shapes {
		if sh.kind == shapeLabel {
			seenLabel = true
			continue
		}
		if seenLabel {
			t.Fatalf("%s painted after labels", sh.id)
		}
		if sh.depth < last {
			t.Fatalf("%s depth %v painted after depth %v", sh.id, sh.depth, last)
		}
		last = sh.depth
	}
	if !seenLabel {
		t.Fatal("no labels")
	}
}

func TestDisplayListOptions(t *testing.T) {
	s := testScene(t)
	count := func(shapes []shape, k shapeKind) int {
		n := 0
		for _, sh := range shapes {
			if sh.kind == k {
				n++
			}
		}
		return n
	}

	all := newRenderer().displayList(s)
	if got := count(all, shapeAxis); got != 3 {
		t.Errorf("axes = %d, want 3", got)
	}
	if got := count(all, shapeLabel); got != len(s.Nodes) {
		t.Errorf("labels = %d, want %d", got, len(s.Nodes))
	}

	bare := newRenderer(WithoutAxes(), WithoutLabels()).displayList(s)
	if count(bare, shapeAxis) != 0 || count(bare, shapeLabel) != 0 {
		t.Error("axes or labels present with WithoutAxes/WithoutLabels")
	}
	if got := count(bare, shapeNode); got != len(s.Nodes) {
		t.Errorf("nodes = %d, want %d", got, len(s.Nodes))
	}
}

func TestWithSizeIgnoresNonPositive(t *testing.T) {
	r := newRenderer(WithSize(0, -5))
	if r.width != DefaultWidth || r.height != DefaultHeight {
		t.Errorf("size = %dx%d", r.width, r.height)
	}
	r = newRenderer(WithSize(320, 200))
	if r.width != 320 || r.height != 200 {
		t.Errorf("size = %dx%d", r.width, r.height)
	}
}

func TestRenderSVG(t *testing.T) {
	s := testScene(t)
	out := string(RenderSVG(s, WithTitle("deps")))

	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if !strings.Contains(out, "<title>deps</title>") {
		t.Error("missing title")
	}
	tests := []struct {
		class string
		want  int
	}{
		{`class="node"`, len(s.Nodes)},
		{`class="segment"`, len(s.Segments)},
		{`class="arrow"`, len(s.Arrows)},
		{`class="label"`, len(s.Nodes)},
		{`class="axis"`, 3},
	}
	for _, tt := range tests {
		if got := strings.Count(out, tt.class); got != tt.want {
			t.Errorf("%s count = %d, want %d", tt.class, got, tt.want)
		}
	}
}

func TestRenderSVGEscapesIDs(t *testing.T) {
	h := hierarchy.New()
	if err := h.AddNode(hierarchy.Node{ID: `a<b>&"c"`}); err != nil {
		t.Fatal(err)
	}
	s, err := layout.Build(h, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	out := string(RenderSVG(s))
	if strings.Contains(out, `a<b>`) {
		t.Errorf("unescaped id in output:\n%s", out)
	}
	if !strings.Contains(out, "a&lt;b&gt;&amp;") {
		t.Errorf("escaped id missing:\n%s", out)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	s := testScene(t)
	if !bytes.Equal(RenderSVG(s), RenderSVG(s)) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRenderPNG(t *testing.T) {
	s := testScene(t)
	data, err := RenderPNG(s, WithSize(200, 150))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("missing png signature: % x", data[:min(8, len(data))])
	}
}

func TestRenderJSON(t *testing.T) {
	s := testScene(t)
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), `"fingerprint": "`+s.Fingerprint()+`"`) {
		t.Errorf("fingerprint missing:\n%s", data)
	}

	back, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if back.Fingerprint() != s.Fingerprint() {
		t.Errorf("fingerprint after round trip = %s, want %s", back.Fingerprint(), s.Fingerprint())
	}
}

func TestReadJSONError(t *testing.T) {
	if _, err := ReadJSON([]byte("{")); err == nil {
		t.Error("expected error")
	}
}
