package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/pipeline"
)

// showCommand creates the show command, which prints node placements.
func (c *CLI) showCommand() *cobra.Command {
	var (
		interactive bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the computed placement of every node",
		Long: `Print the computed placement of every node.

Each row lists a node's depth, its angle around the vertical axis and its 3D
position. Nodes unreachable from any root are listed separately. With -i the
placements open in a scrollable terminal view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), interactive, noCache)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse placements interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, interactive, noCache bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	h, docHash, err := runner.Load(ctx, st)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	opts := pipeline.FromConfig(c.Config)
	opts.Logger = c.Logger
	scene, cacheHit, err := runner.LayoutWithCacheInfo(ctx, h, docHash, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if interactive {
		_, err := tea.NewProgram(NewSceneListModel(scene, h), tea.WithContext(ctx)).Run()
		return err
	}

	if len(scene.Nodes) == 0 {
		printStatus(statusNote, "Document is empty")
		return nil
	}

	rows := make([][]string, len(scene.Nodes))
	for i, n := range scene.Nodes {
		rows[i] = nodeRow(n, h)
	}
	fmt.Println(nodeTable(rows, -1))
	printSceneStats(pipeline.Stats{
		NodeCount:    h.Len(),
		EdgeCount:    h.EdgeCount(),
		Disconnected: len(scene.Disconnected),
	}, cacheHit)
	printUnplaced(scene.Disconnected)
	return nil
}
