package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
)

var (
	uploadDir     string
	uploadArchive bool
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file-path>...",
	Short: "Upload files to a folder",
	Long: `Upload local files into a remote folder. Glob patterns are expanded
locally. Files are sent concurrently; files whose extension or size the
server does not accept are skipped with a warning.

With --archive each file must be an archive; the server extracts it into
a folder of the same name.

Examples:
  fsb-cli upload report.pdf                  # Upload to the root folder
  fsb-cli upload report.pdf -d /docs/        # Upload to /docs/
  fsb-cli upload "*.jpg" -d /photos/         # Upload every jpg
  fsb-cli upload site.zip -d /www/ --archive # Extract site.zip on the server`,
	Args: cobra.MinimumNArgs(1),
	RunE: uploadFiles,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadDir, "dir", "d", "/", "remote folder to upload into")
	uploadCmd.Flags().BoolVar(&uploadArchive, "archive", false, "extract archives into folders on the server")
}

func uploadFiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := browser.ExpandLocalFiles(strings.Join(args, string(filepath.ListSeparator)))
	if err != nil {
		return err
	}

	client, app, err := connect(ctx)
	if err != nil {
		return err
	}
	ctrl, err := newController(client, app, nil)
	if err != nil {
		return err
	}

	// The controller uploads into its current folder
	if err := ctrl.Navigate(ctx, uploadDir); err != nil {
		return fmt.Errorf("failed to open %s: %w", uploadDir, err)
	}

	logrus.Infof("Uploading %d file(s) to %s", len(files), browser.Normalize(uploadDir))
	if err := ctrl.Upload(ctx, files, uploadArchive); err != nil {
		return err
	}
	return nil
}
