package cmd

import (
	"context"
	"fmt"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

var (
	getOutput     string
	getDir        bool
	getNoProgress bool
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:     "get <remote-path>",
	Aliases: []string{"download"},
	Short:   "Download a file, or a folder as a zip archive",
	Long: `Download a file. A path ending in "/" or the --dir flag downloads the
folder as a zip archive. Existing local files are never overwritten.

Examples:
  fsb-cli get /docs/report.pdf          # Save into the download directory
  fsb-cli get /docs/report.pdf -o .     # Save into the current directory
  fsb-cli get /docs/2024/               # Save /docs/2024 as 2024.zip`,
	Args: cobra.ExactArgs(1),
	RunE: getFile,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "local directory (default from ui.download_dir, else ~/Downloads)")
	getCmd.Flags().BoolVarP(&getDir, "dir", "r", false, "download a folder as a zip archive")
	getCmd.Flags().BoolVar(&getNoProgress, "no-progress", false, "disable progress bar")
}

func getFile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := remoteKey(args[0])

	endpoint := api.FileEndpoint(key)
	name := path.Base(key)
	dirMode := getDir || isDirArg(args[0])
	if dirMode {
		endpoint = api.ArchiveEndpoint(key)
		name += ".zip"
	}

	client, app, err := connect(ctx)
	if err != nil {
		return err
	}
	if dirMode {
		if err := checkFolderLimit(ctx, client, key, app.Limits.MaxFileDownload); err != nil {
			return err
		}
	}

	stream, err := client.Fetch(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer stream.Close()
	name = utils.LocalName(stream.Name, name)

	outDir := getOutput
	if outDir == "" {
		outDir = GetConfig().UI.DownloadDir
	}
	saver := utils.NewFileDownloader(outDir)

	var progress func(done, total int64)
	if !getNoProgress && !quiet {
		pr := utils.NewProgressReader(nil, stream.Size, fmt.Sprintf("Downloading %s", name))
		defer pr.Close()
		progress = pr.Callback()
	}

	logrus.Infof("Downloading %s to %s", endpoint, outDir)
	localPath, err := saver.Save(ctx, stream, stream.Size, name, progress)
	if err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", localPath)
	return nil
}

type dirLister interface {
	ListDir(ctx context.Context, dir string) ([]api.Entry, error)
}

// checkFolderLimit refuses a folder whose size in its parent listing is
// above limit. Folders missing from the listing, like the root, pass.
func checkFolderLimit(ctx context.Context, l dirLister, key string, limit int64) error {
	entries, err := l.ListDir(ctx, browser.Parent(key))
	if err != nil {
		return fmt.Errorf("failed to check folder size: %w", err)
	}
	base := path.Base(key)
	for _, e := range entries {
		if e.IsDir && e.Name == base {
			if e.FileSize > limit {
				return &browser.ValidationError{Field: "size", Value: key, Reason: "folder size exceeds the download limit"}
			}
			return nil
		}
	}
	logrus.WithField("path", key).Debug("folder not in parent listing, size unchecked")
	return nil
}
