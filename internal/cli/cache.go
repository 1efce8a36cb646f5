package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/placerlab/placer/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parameter and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case "redis":
				rc, err := cache.NewRedisCache(cmd.Context(), cfg.Cache.Redis)
				if err != nil {
					return err
				}
				defer rc.Close()
				n, err := rc.Clear(cmd.Context(), pattern)
				if err != nil {
					return err
				}
				printSuccess(c.Out, "Cleared %d cached entries", n)
				printDetail(c.Out, "Redis: %s", cfg.Cache.Redis)
				return nil
			case "none":
				printInfo(c.Out, "Cache is disabled")
				return nil
			}

			if _, err := os.Stat(cfg.Cache.Dir); os.IsNotExist(err) {
				printInfo(c.Out, "Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(cfg.Cache.Dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(c.Out, "Cleared cache")
			printDetail(c.Out, "Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "*", "key pattern to delete (redis only)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case "redis":
				fmt.Fprintln(c.Out, cfg.Cache.Redis)
			case "none":
				fmt.Fprintln(c.Out, "none")
			default:
				fmt.Fprintln(c.Out, cfg.Cache.Dir)
			}
			return nil
		},
	}
}
