package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/stats"
	ptable "github.com/HaiFongPan/fsb-cli/internal/table"
	"github.com/HaiFongPan/fsb-cli/internal/tui"
)

var (
	statsDay         int
	statsPage        int
	statsSize        int
	statsInteractive bool

	graphFlag  string
	graphYear  int
	graphLimit int
	graphWidth int
)

// countsCmd represents the counts command
var countsCmd = &cobra.Command{
	Use:   "counts [path]",
	Short: "Show download counters below a folder",
	Long: `Show how often each file below a folder was downloaded.

Examples:
  fsb-cli counts                # Everything
  fsb-cli counts /docs/ --day 7 # Last seven days below /docs/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatsTable(cmd.Context(), args, func(client *api.Client, dir string) error {
			tbl := ptable.Counts(client, dir, pageSize(statsSize))
			return runStatsTable(cmd.Context(), "Download counts "+dir, tbl, ptable.CountColumns())
		})
	},
}

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records [path]",
	Short: "Show who downloaded what below a folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatsTable(cmd.Context(), args, func(client *api.Client, dir string) error {
			tbl := ptable.Downloads(client, dir, pageSize(statsSize))
			return runStatsTable(cmd.Context(), "Downloads "+dir, tbl, ptable.DownloadColumns())
		})
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Chart downloads over time",
	Long: `Chart downloads below a folder per year, month, day or weekday.

Examples:
  fsb-cli graph                         # Daily downloads
  fsb-cli graph --flag Month --year 2024
  fsb-cli graph /docs/ --flag Weekday --day 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: showGraph,
}

func init() {
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(graphCmd)

	for _, c := range []*cobra.Command{countsCmd, recordsCmd} {
		c.Flags().IntVar(&statsDay, "day", 0, "only the last N days")
		c.Flags().IntVarP(&statsPage, "page", "p", 1, "page to show")
		c.Flags().IntVarP(&statsSize, "size", "n", 0, "rows per page (default from ui.page_size)")
		c.Flags().BoolVarP(&statsInteractive, "interactive", "i", false, "browse pages interactively")
	}

	graphCmd.Flags().StringVar(&graphFlag, "flag", api.GraphDay, "series: Year, Month, Day or Weekday")
	graphCmd.Flags().IntVar(&statsDay, "day", 0, "only the last N days")
	graphCmd.Flags().IntVar(&graphYear, "year", 0, "only this year")
	graphCmd.Flags().IntVar(&graphLimit, "limit", 0, "maximum number of points")
	graphCmd.Flags().IntVarP(&graphWidth, "width", "w", 0, "chart width (default terminal width)")
}

func statsDir(args []string) string {
	if len(args) == 0 {
		return browser.Separator
	}
	return browser.Normalize(args[0])
}

func showStatsTable(ctx context.Context, args []string, run func(client *api.Client, dir string) error) error {
	client, _, err := connect(ctx)
	if err != nil {
		return err
	}
	return run(client, statsDir(args))
}

func runStatsTable[T any](ctx context.Context, title string, tbl *ptable.Table[T], cols []ptable.Column[T]) error {
	if statsDay > 0 {
		tbl.SetFilter("Day", strconv.Itoa(statsDay))
	}

	if statsInteractive {
		_, err := tea.NewProgram(tui.NewPageTableModel(title, tbl, cols), tea.WithAltScreen()).Run()
		return err
	}

	if err := tbl.SetPage(ctx, statsPage); err != nil {
		return err
	}
	return outputTable(os.Stdout, tbl, cols)
}

func showGraph(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch graphFlag {
	case api.GraphYear, api.GraphMonth, api.GraphDay, api.GraphWeekday:
	default:
		return fmt.Errorf("invalid graph flag %q (use: Year, Month, Day, Weekday)", graphFlag)
	}

	client, _, err := connect(ctx)
	if err != nil {
		return err
	}

	g, err := client.Graph(ctx, statsDir(args), api.GraphQuery{
		Flag:  graphFlag,
		Year:  graphYear,
		Day:   statsDay,
		Limit: graphLimit,
	})
	if err != nil {
		return err
	}
	if g.Flag == "" {
		g.Flag = graphFlag
	}

	fmt.Print(stats.Render(g, chartWidth()))
	return nil
}

// chartWidth returns --width, else the terminal width, else 80
func chartWidth() int {
	if graphWidth > 0 {
		return graphWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
