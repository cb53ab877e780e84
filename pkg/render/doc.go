// Package render turns computed scenes into files.
//
// # Overview
//
//   - Generic format conversion (SVG to PDF/PNG) through rsvg-convert
//   - The 3D radial scene (in [radial] subpackage)
//   - A flat node-link diagram of the hierarchy (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := radial.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [radial]: github.com/matzehuels/radialtree/pkg/render/radial
// [nodelink]: github.com/matzehuels/radialtree/pkg/render/nodelink
package render
