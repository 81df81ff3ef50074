package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// configured backend: the cache directory, or the railroad keys in Redis.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch := c.newCache(cmd.Context(), false)
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if _, disabled := ch.(*cache.NullCache); disabled || !ok {
				printInfo(c.Err, "Caching is disabled")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess(c.Err, "Cleared the render cache")
			switch v := ch.(type) {
			case *cache.FileCache:
				printDetail(c.Err, "Directory: %s", v.Dir())
			case *cache.RedisCache:
				printDetail(c.Err, "Redis: %s", c.cfg().Cache.RedisURL)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cfg().Cache.Dir
			if dir == "" {
				var err error
				if dir, err = cacheDir(); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
				}
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
