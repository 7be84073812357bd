package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

var (
	lsInteractive bool
	lsSort        string
	lsReverse     bool
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:     "ls [path]",
	Aliases: []string{"list"},
	Short:   "List a directory",
	Long: `List the files and folders of a remote directory.

Examples:
  fsb-cli ls                  # List the root directory
  fsb-cli ls /docs/           # List /docs/
  fsb-cli ls /docs/ -S size   # Sort by size
  fsb-cli ls /docs/ -i        # Open the interactive browser at /docs/`,
	Args: cobra.MaximumNArgs(1),
	RunE: listDir,
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVarP(&lsInteractive, "interactive", "i", false, "launch interactive browser")
	lsCmd.Flags().StringVarP(&lsSort, "sort", "S", "", "sort by name, size or time")
	lsCmd.Flags().BoolVarP(&lsReverse, "reverse", "r", false, "reverse the sort order")
}

func parseSort(s string) (browser.SortColumn, error) {
	switch s {
	case "":
		return browser.SortNone, nil
	case "name":
		return browser.SortName, nil
	case "size":
		return browser.SortSize, nil
	case "time", "modified":
		return browser.SortModTime, nil
	}
	return browser.SortNone, fmt.Errorf("invalid sort column %q (use: name, size, time)", s)
}

func listDir(cmd *cobra.Command, args []string) error {
	dir := browser.Separator
	if len(args) > 0 {
		dir = args[0]
	}
	if lsInteractive {
		return runBrowser(cmd.Context(), dir)
	}

	col, err := parseSort(lsSort)
	if err != nil {
		return err
	}

	client, app, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	ctrl, err := newController(client, app, nil)
	if err != nil {
		return err
	}

	logrus.Debugf("Listing %s", dir)
	if err := ctrl.Navigate(cmd.Context(), dir); err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if col != browser.SortNone {
		ctrl.SortBy(col)
		if lsReverse {
			ctrl.SortBy(col)
		}
	}

	snap := ctrl.Snapshot()
	return outputEntries(os.Stdout, snap.Listing.Entries, false)
}

// outputEntries prints entries as a table. fullPath shows identity keys
// instead of names, as search results come from many folders.
func outputEntries(out io.Writer, entries []api.Entry, fullPath bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")

	for _, e := range entries {
		name := e.Name
		if fullPath {
			name = browser.KeyOf(e)
		}
		if e.IsDir {
			name += browser.Separator
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, utils.FormatFileSize(e.FileSize), utils.FormatUnix(e.ModTime))
	}
	return w.Flush()
}
