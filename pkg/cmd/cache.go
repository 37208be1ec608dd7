package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/clirack/clirack/pkg/cache"
	"github.com/clirack/clirack/pkg/loader"
	"github.com/clirack/clirack/pkg/table"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the loader cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached resources",
		Args:  cobra.NoArgs,
		RunE:  runCacheList,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached resources",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	}

	cacheCmd.AddCommand(listCmd)
	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}

func runCacheList(cmd *cobra.Command, args []string) error {
	c := cache.New(DevCfg.CacheDir)
	entries, err := c.Entries()
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	t := table.New("Name", "Type", "Locator", "Age")
	for _, name := range entries {
		meta, err := loader.Default().ReadMeta(c.Path(name))
		if err != nil {
			// Corrupted entries are listed so the user can clear them.
			t.Append(name, "?", "(corrupted metadata)", "")
			continue
		}
		t.Append(
			name,
			meta.Locator.Type(),
			meta.Locator.String(),
			time.Since(meta.Timestamp).Round(time.Second).String(),
		)
	}
	if t.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
		return nil
	}
	return t.Print(cmd.OutOrStdout())
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c := cache.New(DevCfg.CacheDir)
	entries, err := c.Entries()
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, name := range entries {
		if err := os.RemoveAll(filepath.Join(DevCfg.CacheDir, name)); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached resource(s)\n", len(entries))
	return nil
}
