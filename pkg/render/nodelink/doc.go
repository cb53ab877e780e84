// Package nodelink renders hierarchies as flat node-link diagrams.
//
// # Overview
//
// This package produces directed graph drawings using Graphviz, where nodes
// appear as boxes connected by arrows from parent to child. It is a 2D
// companion to the radial scene for cases where a traditional diagram reads
// better, and the DOT source is handy for external tooling.
//
// # Usage
//
// Convert a hierarchy to DOT, then render it:
//
//	dot := nodelink.ToDOT(h, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
//   - Detailed: node labels include depth and angle from Options.Scene
//   - Scene: a computed layout; nodes it could not place are drawn dashed
//
// # Dependencies
//
// SVG is rendered in-process with [github.com/goccy/go-graphviz]. PDF and PNG
// conversion requires librsvg (rsvg-convert).
package nodelink
