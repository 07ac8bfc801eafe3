package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wallhue/wallhue/internal/cache"
	"github.com/wallhue/wallhue/internal/theme"
)

// cacheCmd groups the cache inspection subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the scheme cache",
}

// cacheListCmd lists every cached scheme.
var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached colour schemes",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

// cachePathCmd prints the resolved cache file location.
var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagCacheFile
		if path == "" {
			resolved, err := cache.DefaultPath()
			if err != nil {
				return err
			}
			path = resolved
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePathCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cachePath := flagCacheFile
	if cachePath == "" {
		resolved, err := cache.DefaultPath()
		if err != nil {
			return err
		}
		cachePath = resolved
	}

	store, err := cache.Open(cachePath, logger.Named("cache"))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
		return nil
	}

	table := NewTable([]string{"IMAGE", "CENTRALITY", "TRANSFORMATION", "COLOURS"})
	for _, entry := range entries {
		table.AddRow([]string{
			entry.Path,
			entry.Centrality.String(),
			describeOptions(entry.Options),
			strconv.Itoa(entry.Colours),
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), table.Render())
	return nil
}

// describeOptions renders an option vector for display.
func describeOptions(o theme.Options) string {
	if o.IsDefault() {
		return "(default)"
	}
	return strings.TrimPrefix(strings.Join(o.Args(), " "), "--")
}
