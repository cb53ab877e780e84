package radial

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/radialtree/pkg/layout"
)

// RenderSVG paints the scene as an SVG document.
func RenderSVG(s *layout.Scene, opts ...Option) []byte {
	r := newRenderer(opts...)
	shapes := r.displayList(s)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.width, r.height)
	canvas.Title(r.title)
	canvas.Rect(0, 0, r.width, r.height, "fill:"+cssColor(colorBackground))

	for _, sh := range shapes {
		id := fmt.Sprintf(`data-id="%s"`, html.EscapeString(sh.id))
		switch sh.kind {
		case shapeAxis:
			x1, y1, x2, y2 := px(sh.pts[0][0]), px(sh.pts[0][1]), px(sh.pts[1][0]), px(sh.pts[1][1])
			canvas.Line(x1, y1, x2, y2, `class="axis"`, id, fmt.Sprintf("stroke:%s;stroke-width:1.5", cssColor(sh.color)))
			canvas.Text(x2+4, y2-4, sh.text, `class="axis-label"`, fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", cssColor(sh.color)))
		case shapeSegment:
			canvas.Line(px(sh.pts[0][0]), px(sh.pts[0][1]), px(sh.pts[1][0]), px(sh.pts[1][1]),
				`class="segment"`, id, fmt.Sprintf("stroke:%s;stroke-width:1.5", cssColor(sh.color)))
		case shapeArrow:
			xs := make([]int, len(sh.pts))
			ys := make([]int, len(sh.pts))
			for i, p := range sh.pts {
				xs[i], ys[i] = px(p[0]), px(p[1])
			}
			canvas.Polygon(xs, ys, `class="arrow"`, id, "fill:"+cssColor(sh.color))
		case shapeNode:
			canvas.Circle(px(sh.pts[0][0]), px(sh.pts[0][1]), px(sh.r),
				`class="node"`, id, fmt.Sprintf("fill:%s;stroke:white;stroke-width:1", cssColor(sh.color)))
		case shapeLabel:
			canvas.Text(px(sh.pts[0][0]), px(sh.pts[0][1]), sh.text,
				`class="label"`, id, fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", cssColor(sh.color)))
		}
	}

	canvas.End()
	return buf.Bytes()
}

func px(v float64) int { return int(math.Round(v)) }

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
