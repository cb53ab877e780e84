package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/store"
)

// linkCommand creates the link command, which merges parent/child
// relations into the document.
func (c *CLI) linkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link PARENT CHILD...",
		Short: "Add parent/child relations to the document",
		Long: `Add parent/child relations to the document.

Missing nodes are created. Relations that already exist are left alone, so
running the same link twice changes nothing. The document is written back in
normalized form ("parent" is always a list).`,
		Example: `  radialtree link animals mammals birds
  radialtree link mammals dogs`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := hierarchy.LinkRequest{ParentID: args[0], ChildIDs: args[1:]}
			return c.runLink(cmd.Context(), req)
		},
	}
}

// unlinkCommand creates the unlink command, the inverse of link.
func (c *CLI) unlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink PARENT CHILD",
		Short: "Remove a parent/child relation from the document",
		Long: `Remove a parent/child relation from the document.

Both nodes are kept. A child that loses its last parent becomes a root.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUnlink(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runLink(ctx context.Context, req hierarchy.LinkRequest) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := store.Link(ctx, st, req)
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	c.Logger.Debug("document updated", "nodes", h.Len(), "edges", h.EdgeCount())

	printEdgeChange("Linked", req.ParentID, req.ChildIDs, h.Len(), h.EdgeCount())
	return nil
}

func (c *CLI) runUnlink(ctx context.Context, parent, child string) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := store.Unlink(ctx, st, parent, child)
	if err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	c.Logger.Debug("document updated", "nodes", h.Len(), "edges", h.EdgeCount())

	printEdgeChange("Unlinked", parent, []string{child}, h.Len(), h.EdgeCount())
	return nil
}
