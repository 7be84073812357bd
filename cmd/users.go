package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	ptable "github.com/HaiFongPan/fsb-cli/internal/table"
	"github.com/HaiFongPan/fsb-cli/internal/tui"
)

var (
	usersInteractive bool
	usersPage        int
	usersSize        int
	usersClass       string
	usersDepartment  string
	usersRealName    string

	addPassword   string
	addRealName   string
	addDepartment string
	addClass      string

	usersRmForce bool
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and manage users (administrators only)",
	Long: `List the registered users page by page, optionally filtered.

Examples:
  fsb-cli users                       # First page
  fsb-cli users --page 2 --size 25    # Second page, 25 per page
  fsb-cli users --department Sales    # Filter by department
  fsb-cli users -i                    # Browse and delete interactively`,
	Args: cobra.NoArgs,
	RunE: listUsers,
}

var usersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE:  addUser,
}

var usersRmCmd = &cobra.Command{
	Use:     "rm <uid>...",
	Aliases: []string{"delete"},
	Short:   "Remove users by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    removeUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersRmCmd)

	usersCmd.Flags().BoolVarP(&usersInteractive, "interactive", "i", false, "browse users interactively")
	usersCmd.Flags().IntVarP(&usersPage, "page", "p", 1, "page to show")
	usersCmd.Flags().IntVarP(&usersSize, "size", "n", 0, "rows per page (default from ui.page_size)")
	usersCmd.Flags().StringVar(&usersClass, "class", "", "filter by user class")
	usersCmd.Flags().StringVar(&usersDepartment, "department", "", "filter by department")
	usersCmd.Flags().StringVar(&usersRealName, "realname", "", "filter by real name")

	usersAddCmd.Flags().StringVar(&addPassword, "password", "", "initial password (prompted when empty)")
	usersAddCmd.Flags().StringVar(&addRealName, "realname", "", "real name")
	usersAddCmd.Flags().StringVar(&addDepartment, "department", "", "department")
	usersAddCmd.Flags().StringVar(&addClass, "class", "", "user class (server default when empty)")

	usersRmCmd.Flags().BoolVarP(&usersRmForce, "force", "f", false, "remove without confirmation")
}

// pageSize returns n, or the configured page size when n is unset
func pageSize(n int) int {
	if n > 0 {
		return n
	}
	return GetConfig().UI.PageSize
}

func listUsers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := connect(ctx)
	if err != nil {
		return err
	}

	tbl := ptable.Users(client, pageSize(usersSize))
	tbl.SetFilter("Class", usersClass)
	tbl.SetFilter("Department", usersDepartment)
	tbl.SetFilter("RealName", usersRealName)

	if usersInteractive {
		model := tui.NewPageTableModel("Users", tbl, ptable.UserColumns()).
			WithDelete(func(ctx context.Context, u api.UserRecord) error {
				return client.RemoveUsers(ctx, []int64{u.Uid})
			}, func(u api.UserRecord) string {
				return fmt.Sprintf("%s (uid %d)", u.Name, u.Uid)
			})
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	}

	if err := tbl.SetPage(ctx, usersPage); err != nil {
		return err
	}
	return outputTable(os.Stdout, tbl, ptable.UserColumns())
}

// outputTable prints the current page of tbl followed by a page summary
func outputTable[T any](out io.Writer, tbl *ptable.Table[T], cols []ptable.Column[T]) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	fmt.Fprintln(w, strings.Join(titles, "\t"))
	for _, row := range tbl.Rows() {
		fmt.Fprintln(w, strings.Join(ptable.Cells(cols, row), "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\npage %d/%d • %d rows • %d per page\n",
		tbl.Page(), tbl.TotalPages(), tbl.Sum(), tbl.OnePageCount())
	return nil
}

func addUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	password := addPassword
	if password == "" {
		var err error
		password, err = readPassword("Password for " + args[0])
		if err != nil {
			return err
		}
		again, err := readPassword("Repeat password")
		if err != nil {
			return err
		}
		if again != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	client, _, err := connect(ctx)
	if err != nil {
		return err
	}
	err = client.AddUser(ctx, api.RegisterForm{
		Name:       args[0],
		Password:   password,
		RealName:   addRealName,
		Department: addDepartment,
		Class:      addClass,
	})
	if err != nil {
		return fmt.Errorf("%w: %s", err, api.UserMessage(err))
	}
	fmt.Printf("User %s added\n", args[0])
	return nil
}

func removeUsers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	uids := make([]int64, 0, len(args))
	for _, a := range args {
		uid, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid uid %q", a)
		}
		uids = append(uids, uid)
	}

	if !usersRmForce && !confirm(fmt.Sprintf("Remove %d user(s) %s?", len(uids), strings.Join(args, ", "))) {
		fmt.Println("Remove cancelled.")
		return nil
	}

	client, _, err := connect(ctx)
	if err != nil {
		return err
	}
	if err := client.RemoveUsers(ctx, uids); err != nil {
		return fmt.Errorf("%w: %s", err, api.UserMessage(err))
	}
	fmt.Printf("Removed %d user(s)\n", len(uids))
	return nil
}
