package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/render/nodelink"
	"github.com/matzehuels/radialtree/pkg/render/radial"
)

// Render generates output artifacts in the given formats without caching.
// h may be nil unless formats includes DOT.
func Render(ctx context.Context, s *layout.Scene, h *hierarchy.Hierarchy, formats []string, opts Options) (map[string][]byte, error) {
	ropts := opts.radialOptions()
	artifacts := make(map[string][]byte, len(formats))

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = radial.RenderSVG(s, ropts...)
		case FormatPNG:
			data, err = radial.RenderPNG(s, ropts...)
		case FormatPDF:
			data, err = radial.RenderPDF(ctx, s, ropts...)
		case FormatJSON:
			data, err = radial.RenderJSON(s)
		case FormatDOT:
			if h == nil {
				return nil, errs.New(errs.ErrCodeInternal, "dot output needs the hierarchy")
			}
			data = []byte(nodelink.ToDOT(h, nodelink.Options{Scene: s}))
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
