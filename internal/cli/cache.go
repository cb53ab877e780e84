package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached scenes and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.Config.CacheOptions()
			cc, err := cache.Open(ctx, opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printStatus(statusWarn, "The %s cache cannot be cleared", opts.Backend)
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printStatus(statusNote, "Cache is empty")
				return nil
			}

			printStatus(statusDone, "Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(opts))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cacheLocation(c.Config.CacheOptions()))
			return nil
		},
	}
}

// cacheLocation describes where a cache backend keeps its entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendFile:
		return opts.Dir
	case cache.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", opts.RedisAddr, opts.RedisDB)
	}
	return "disabled"
}
