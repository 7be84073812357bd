package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <expression> [path]",
	Short: "Search files below a directory",
	Long: `Search for files whose name matches an expression, below a remote
directory (the root by default).

Examples:
  fsb-cli search report
  fsb-cli search .pdf /docs/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: searchFiles,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func searchFiles(cmd *cobra.Command, args []string) error {
	dir := browser.Separator
	if len(args) > 1 {
		dir = browser.Normalize(args[1])
	}

	client, _, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	hits, err := client.Search(cmd.Context(), dir, args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(hits) == 0 {
		fmt.Fprintf(os.Stderr, "No matches for %q under %s\n", args[0], dir)
		return nil
	}
	return outputEntries(os.Stdout, hits, true)
}
