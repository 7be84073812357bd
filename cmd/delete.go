package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/api"
)

var (
	deleteForce bool
	deleteDir   bool
)

// deleteCmd represents the rm command
var deleteCmd = &cobra.Command{
	Use:     "rm <remote-path>...",
	Aliases: []string{"delete"},
	Short:   "Delete files or folders",
	Long: `Delete files or folders on the server. A path ending in "/" or the
--dir flag deletes a folder with everything in it.

Examples:
  fsb-cli rm /docs/old.txt            # Delete a single file
  fsb-cli rm /docs/a.txt /docs/b.txt  # Delete several files
  fsb-cli rm /docs/2023/              # Delete a folder
  fsb-cli rm /docs/old.txt --force    # Delete without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: deleteFiles,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "force delete without confirmation")
	deleteCmd.Flags().BoolVarP(&deleteDir, "dir", "r", false, "treat every path as a folder")
}

func deleteFiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := connect(ctx)
	if err != nil {
		return err
	}

	// Ask for confirmation unless --force is used
	if !deleteForce {
		fmt.Printf("The following %d paths will be deleted:\n", len(args))
		for _, p := range args {
			fmt.Printf("  - %s\n", p)
		}
		if !confirm("Are you sure? This cannot be undone!") {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	var deleteErrors []error
	deletedCount := 0
	for _, p := range args {
		key := remoteKey(p)
		if key == "/" {
			deleteErrors = append(deleteErrors, fmt.Errorf("refusing to delete the root directory"))
			continue
		}

		if deleteDir || isDirArg(p) {
			err = client.DeleteDir(ctx, key)
		} else {
			err = client.DeleteFile(ctx, key)
		}
		if err != nil {
			logrus.Errorf("Failed to delete %s: %v", key, err)
			deleteErrors = append(deleteErrors, fmt.Errorf("%s: %s", key, api.UserMessage(err)))
			continue
		}
		logrus.Debugf("Deleted: %s", key)
		deletedCount++
	}

	if len(deleteErrors) > 0 {
		msgs := make([]string, len(deleteErrors))
		for i, err := range deleteErrors {
			msgs[i] = "  " + err.Error()
		}
		return fmt.Errorf("deleted %d, %d failed:\n%s", deletedCount, len(deleteErrors), strings.Join(msgs, "\n"))
	}

	fmt.Printf("Deleted %d path(s)\n", deletedCount)
	return nil
}
