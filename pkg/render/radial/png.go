package radial

import (
	"bytes"
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/radialtree/pkg/layout"
)

// RenderPNG rasterizes the scene. Unlike [RenderPDF] it needs no external
// tools.
func RenderPNG(s *layout.Scene, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	shapes := r.displayList(s)

	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(colorBackground)
	dc.Clear()

	for _, sh := range shapes {
		dc.SetColor(sh.color)
		switch sh.kind {
		case shapeAxis:
			dc.SetLineWidth(1.5)
			dc.DrawLine(sh.pts[0][0], sh.pts[0][1], sh.pts[1][0], sh.pts[1][1])
			dc.Stroke()
			dc.DrawStringAnchored(sh.text, sh.pts[1][0]+4, sh.pts[1][1]-4, 0, 0)
		case shapeSegment:
			dc.SetLineWidth(1.5)
			dc.DrawLine(sh.pts[0][0], sh.pts[0][1], sh.pts[1][0], sh.pts[1][1])
			dc.Stroke()
		case shapeArrow:
			dc.MoveTo(sh.pts[0][0], sh.pts[0][1])
			for _, p := range sh.pts[1:] {
				dc.LineTo(p[0], p[1])
			}
			dc.ClosePath()
			dc.Fill()
		case shapeNode:
			dc.DrawCircle(sh.pts[0][0], sh.pts[0][1], sh.r)
			dc.Fill()
		case shapeLabel:
			dc.DrawStringAnchored(sh.text, sh.pts[0][0], sh.pts[0][1], 0, 0)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
