package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/closurec/internal/cache"
	"github.com/dshills/closurec/internal/config"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var flagCacheJSON bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the source cache",
}

func openCache() (*cache.Cache, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Dir, cfg.CacheMaxAge())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached source file",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		n, err := c.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d %s removed).\n", n, plural(n, "entry", "entries"))
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached source files older than the max age",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		res := c.Clean()
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale %s older than %s.\n",
			res.Removed, plural(res.Removed, "entry", "entries"), c.MaxAge())
		if len(res.Errors) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d %s could not be removed.\n",
				len(res.Errors), plural(len(res.Errors), "file", "files"))
		}
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		out := cmd.OutOrStdout()
		if flagCacheJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Directory: %s\n", stats.Dir)
		fmt.Fprintf(out, "Entries:   %d (%s)\n", stats.Entries, humanize.Bytes(uint64(stats.TotalBytes)))
		fmt.Fprintf(out, "Stale:     %d (max age %s)\n", stats.Stale, c.MaxAge())
		if !stats.Oldest.IsZero() {
			fmt.Fprintf(out, "Oldest:    %s\n", humanize.Time(stats.Oldest))
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheShowCmd.Flags().BoolVar(&flagCacheJSON, "json", false, "Print statistics as JSON")
}
