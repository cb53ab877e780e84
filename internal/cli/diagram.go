package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/render/nodelink"
)

// diagramFormats are the outputs of the 2D node-link diagram.
var diagramFormats = []string{pipeline.FormatSVG, pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatDOT}

// diagramCommand creates the diagram command, a flat Graphviz rendering of
// the hierarchy.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Draw the hierarchy as a 2D node-link diagram",
		Long: `Draw the hierarchy as a 2D node-link diagram with Graphviz.

The diagram is a plain top-down graph of the parent/child relations, useful
for checking a document before looking at the 3D scene. With --detailed each
node is annotated with its computed depth and angle, and nodes unreachable
from any root are drawn dashed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(diagramFormats, format) {
				return errs.New(errs.ErrCodeInvalidFormat, "invalid diagram format %q (must be svg, pdf, png or dot)", format)
			}
			return c.runDiagram(cmd.Context(), format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, pdf, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <document>.diagram.<format>, - for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "annotate nodes with depth and angle")

	return cmd
}

func (c *CLI) runDiagram(ctx context.Context, format, output string, detailed bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	opts := nodelink.Options{Detailed: detailed}
	if detailed {
		scene, err := layout.Build(h, c.Config.LayoutOptions())
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
		opts.Scene = scene
	}
	dot := nodelink.ToDOT(h, opts)

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case pipeline.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, 2.0)
	}
	if err != nil {
		return fmt.Errorf("render diagram: %w", err)
	}

	path := output
	if path == "" {
		path = c.documentBase() + ".diagram." + format
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	if path != stdoutPath {
		printArtifacts("Diagram complete", path)
	}
	return nil
}
