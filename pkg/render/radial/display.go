package radial

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/matzehuels/radialtree/pkg/geom"
	"github.com/matzehuels/radialtree/pkg/layout"
)

type shapeKind int

const (
	shapeAxis shapeKind = iota
	shapeSegment
	shapeArrow
	shapeNode
	shapeLabel
)

// shape is one painted primitive in pixel space.
type shape struct {
	kind  shapeKind
	id    string // node ID or "parent->child"
	pts   [][2]float64
	r     float64
	text  string
	color color.RGBA
	depth float64
}

// Palette.
var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorSegment    = color.RGBA{0x4a, 0x6f, 0xa5, 0xff}
	colorArrow      = color.RGBA{0xc0, 0x39, 0x2b, 0xff}
	colorNode       = color.RGBA{0x2e, 0x86, 0xde, 0xff}
	colorLabel      = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorAxes       = [3]color.RGBA{
		{0xe7, 0x4c, 0x3c, 0xff},
		{0x27, 0xae, 0x60, 0xff},
		{0x29, 0x80, 0xb9, 0xff},
	}
)

// Fixed sizes in pixels and scene units.
const (
	nodeRadius   = 5.0
	labelOffset  = 8.0
	axisLength   = 2.0
	axisBoxRange = 2.0
)

// bounds returns the points the view must contain.
func bounds(s *layout.Scene) []geom.Vec3 {
	top := float64(s.MaxLevel) + 1
	var pts []geom.Vec3
	for _, x := range []float64{-axisBoxRange, axisBoxRange} {
		for _, y := range []float64{-axisBoxRange, axisBoxRange} {
			for _, z := range []float64{-1, top} {
				pts = append(pts, geom.V(x, y, z))
			}
		}
	}
	for _, n := range s.Nodes {
		pts = append(pts, n.Pos)
	}
	return pts
}

// displayList projects the scene and returns its shapes back to front.
// Labels are always last so they stay readable.
func (r renderer) displayList(s *layout.Scene) []shape {
	v := newViewport(r.camera, bounds(s), r.width, r.height, r.scale)
	pt := func(p geom.Vec3) [2]float64 {
		x, y := v.project(p)
		return [2]float64{x, y}
	}

	var shapes []shape
	if r.axes {
		for i, end := range []geom.Vec3{geom.V(axisLength, 0, 0), geom.V(0, axisLength, 0), geom.V(0, 0, axisLength)} {
			shapes = append(shapes, shape{
				kind:  shapeAxis,
				id:    string(rune('X' + i)),
				pts:   [][2]float64{pt(geom.Vec3{}), pt(end)},
				text:  string(rune('X' + i)),
				color: colorAxes[i],
				depth: v.depth(end.Scale(0.5)),
			})
		}
	}

	for _, sg := range s.Segments {
		shapes = append(shapes, shape{
			kind:  shapeSegment,
			id:    sg.Parent + "->" + sg.Child,
			pts:   [][2]float64{pt(sg.From), pt(sg.To)},
			color: colorSegment,
			depth: v.depth(sg.From.Add(sg.To).Scale(0.5)),
		})
	}

	for _, a := range s.Arrows {
		centroid := a.Tip.Add(a.Base1).Add(a.Base2).Scale(1.0 / 3)
		shapes = append(shapes, shape{
			kind:  shapeArrow,
			id:    a.Parent + "->" + a.Child,
			pts:   [][2]float64{pt(a.Tip), pt(a.Base1), pt(a.Base2)},
			color: colorArrow,
			depth: v.depth(centroid),
		})
	}

	for _, n := range s.Nodes {
		shapes = append(shapes, shape{
			kind:  shapeNode,
			id:    n.ID,
			pts:   [][2]float64{pt(n.Pos)},
			r:     nodeRadius,
			color: colorNode,
			depth: v.depth(n.Pos),
		})
	}

	slices.SortStableFunc(shapes, func(a, b shape) int {
		if c := cmp.Compare(a.depth, b.depth); c != 0 {
			return c
		}
		return cmp.Compare(a.kind, b.kind)
	})

	if r.labels {
		for _, n := range s.Nodes {
			x, y := v.project(n.Pos)
			shapes = append(shapes, shape{
				kind:  shapeLabel,
				id:    n.ID,
				pts:   [][2]float64{{x + labelOffset, y - labelOffset}},
				text:  n.ID,
				color: colorLabel,
				depth: v.depth(n.Pos),
			})
		}
	}
	return shapes
}
