package radial

import (
	"context"

	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/render"
)

// RenderPDF converts [RenderSVG] output to PDF with rsvg-convert.
func RenderPDF(ctx context.Context, s *layout.Scene, opts ...Option) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(s, opts...))
}
