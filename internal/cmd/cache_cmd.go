package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lnkd/linkedin-cli/internal/cache"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local lookup cache",
		Long:  "Connection lists used to resolve --to-name are cached for five minutes. Set LI_NO_CACHE=1 to disable.",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return groupCmd(cmd)
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			if dir == "" {
				return fmt.Errorf("could not determine cache directory")
			}
			n := cache.ClearAll(dir)
			printIfNotQuiet(cmd, "Removed %d cache file(s) from %s\n", n, dir)
			return nil
		},
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory and its files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			if dir == "" {
				return fmt.Errorf("could not determine cache directory")
			}

			out := iocontext.GetIO(cmdContext(cmd)).Out
			_, _ = fmt.Fprintln(out, dir)
			for _, name := range cache.Files(dir) {
				info, err := os.Stat(filepath.Join(dir, name))
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", name, info.Size())
			}
			return nil
		},
	}
}
