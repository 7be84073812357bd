package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
)

// mkdirCmd represents the mkdir command
var mkdirCmd = &cobra.Command{
	Use:   "mkdir <remote-path>",
	Short: "Create a folder",
	Long: `Create a folder on the server. The parent folder must exist.

Examples:
  fsb-cli mkdir /docs/2025`,
	Args: cobra.ExactArgs(1),
	RunE: makeDir,
}

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:     "rename <remote-path> <new-name>",
	Aliases: []string{"mv"},
	Short:   "Rename a file or folder in place",
	Long: `Rename a file or folder. The new name is a plain name; moving to
another folder is not supported.

Examples:
  fsb-cli rename /docs/a.txt b.txt`,
	Args: cobra.ExactArgs(2),
	RunE: renameEntry,
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(renameCmd)
}

func makeDir(cmd *cobra.Command, args []string) error {
	target := remoteKey(args[0])
	if err := browser.ValidateName(path.Base(target)); err != nil {
		return err
	}

	client, _, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.CreateDir(cmd.Context(), target); err != nil {
		return err
	}
	fmt.Printf("Created %s%s\n", target, browser.Separator)
	return nil
}

func renameEntry(cmd *cobra.Command, args []string) error {
	key := remoteKey(args[0])
	if key == browser.Separator {
		return fmt.Errorf("cannot rename the root directory")
	}
	if err := browser.ValidateName(args[1]); err != nil {
		return err
	}

	client, _, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.Rename(cmd.Context(), key, args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %s\n", key, browser.Join(browser.Parent(key), args[1]))
	return nil
}
