package geom

import (
	"errors"
	"fmt"
)

// ErrDegenerateEdge is returned by [Arrowhead] when start and end coincide,
// so the edge has no direction.
var ErrDegenerateEdge = errors.New("degenerate edge: start and end coincide")

// parallelEpsilon is the cross-product length below which the edge direction
// is treated as parallel to the up axis.
const parallelEpsilon = 1e-9

// ArrowOptions sizes and orients arrowhead markers.
type ArrowOptions struct {
	Width    float64 `json:"width" toml:"width"`   // half-width of the base
	Length   float64 `json:"length" toml:"length"` // tip to base distance
	Offset   float64 `json:"offset" toml:"offset"` // tip pull-back from the edge end
	Up       Vec3    `json:"-" toml:"-"`           // the triangle lies perpendicular to Up
	Fallback Vec3    `json:"-" toml:"-"`           // ortho axis when the edge is parallel to Up
}

// DefaultArrowOptions returns the marker dimensions used by the renderers.
func DefaultArrowOptions() ArrowOptions {
	return ArrowOptions{
		Width:    0.08,
		Length:   0.08,
		Offset:   0.12,
		Up:       V(0, 0, 1),
		Fallback: V(1, 0, 0),
	}
}

// Triangle is one arrowhead marker.
type Triangle struct {
	Tip   Vec3 `json:"tip"`
	Base1 Vec3 `json:"base1"`
	Base2 Vec3 `json:"base2"`
}

// Arrowhead computes the marker for the directed edge start → end.
//
// With v the unit direction from start to end:
//
//	tip   = end − v·Offset
//	base  = tip − v·Length
//	ortho = normalize(v × Up), or Fallback when v is parallel to Up
//	Base1 = base + ortho·Width
//	Base2 = base − ortho·Width
//
// Returns ErrDegenerateEdge when start == end. A zero Up is replaced by the
// default (0, 0, 1), so the zero ArrowOptions only needs its sizes set.
func Arrowhead(start, end Vec3, opts ArrowOptions) (Triangle, error) {
	v, ok := end.Sub(start).Normalize()
	if !ok {
		return Triangle{}, fmt.Errorf("%w: %v", ErrDegenerateEdge, start)
	}

	up := opts.Up
	if up.IsZero() {
		up = V(0, 0, 1)
	}

	tip := end.Sub(v.Scale(opts.Offset))
	base := tip.Sub(v.Scale(opts.Length))

	ortho := opts.Fallback
	if c := v.Cross(up); c.Norm() > parallelEpsilon {
		ortho, _ = c.Normalize()
	} else if ortho.IsZero() {
		ortho = V(1, 0, 0)
	}

	return Triangle{
		Tip:   tip,
		Base1: base.Add(ortho.Scale(opts.Width)),
		Base2: base.Sub(ortho.Scale(opts.Width)),
	}, nil
}
