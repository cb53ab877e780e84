package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds depth and angle to node labels. It needs Scene.
	Detailed bool

	// Scene is an optional layout of the same hierarchy. Nodes it lists as
	// disconnected are drawn dashed.
	Scene *layout.Scene
}

// ToDOT converts a hierarchy to Graphviz DOT. Nodes appear in document
// order and edges in children order. Relations naming a missing node are
// left out.
func ToDOT(h *hierarchy.Hierarchy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var disconnected []string
	if opts.Scene != nil {
		disconnected = opts.Scene.Disconnected
	}

	for _, id := range h.IDs() {
		label := fmtLabel(id, opts)
		attrs := fmtAttrs(label, slices.Contains(disconnected, id))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range h.Edges() {
		if !h.Has(e.Child) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Parent, e.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id string, opts Options) string {
	if !opts.Detailed || opts.Scene == nil {
		return id
	}
	n, ok := opts.Scene.Node(id)
	if !ok {
		return id + "\nunplaced"
	}
	deg := n.Angle * 180 / math.Pi
	return fmt.Sprintf("%s\ndepth: %d\nangle: %.1f°", id, n.Depth, deg)
}

func fmtAttrs(label string, disconnected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if disconnected {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via [RenderSVG] and [render.ToPNG].
// A scale of 2.0 doubles the resolution.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
