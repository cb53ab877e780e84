// Package radial renders a [layout.Scene] as a 3D picture.
//
// The scene is viewed through an orthographic camera set by elevation and
// azimuth (30° and 45° by default, the angles of a classic matplotlib 3D
// plot). Everything visible is collected into a display list of lines,
// triangles and circles, sorted back to front (painter's algorithm), and then
// painted by one of the sinks:
//
//   - [RenderSVG]: vector output written with svgo
//   - [RenderPNG]: raster output drawn with gg, no external tools required
//   - [RenderPDF]: the SVG converted by rsvg-convert
//   - [RenderJSON]: the raw scene geometry plus its fingerprint
//
// Besides segments, arrowheads and nodes, the picture contains X/Y/Z axis
// arrows of length 2 from the origin and a text label at every node. The
// view is fitted to the box x, y ∈ [−2, 2], z ∈ [−1, maxLevel+1], grown to
// include every node.
//
// [layout.Scene]: github.com/matzehuels/radialtree/pkg/layout.Scene
package radial
