package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/render/radial"
)

// visualizeCommand creates the visualize command for rendering from a scene.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		flags   renderFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [scene.json]",
		Short: "Render visualization from a computed scene",
		Long: `Render visualization from a computed scene.

The visualize command takes a scene.json file (produced by 'layout') and
renders it to SVG, PNG or PDF. The scene contains all positioning
information, so this step is purely about rendering. DOT output needs the
hierarchy itself; use 'render -f dot' for it.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if slices.Contains(opts.Formats, pipeline.FormatDOT) {
				return errs.New(errs.ErrCodeInvalidFormat, "dot output needs the hierarchy document; use 'render -f dot'")
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the scene and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "read scene %s", input)
	}
	scene, err := radial.ReadJSON(data)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", describeFormats(opts.Formats)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, scene, nil, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	// A scene file renders next to itself: tree.scene.json -> tree.svg.
	base := strings.TrimSuffix(input, sceneSuffix)
	if base == input {
		base = outputBase(input, input)
	}
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      base,
	})
	if err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}

	printArtifacts("Visualization complete", paths...)
	printSceneStats(pipeline.Stats{Disconnected: len(scene.Disconnected)}, cacheHit)
	return nil
}
