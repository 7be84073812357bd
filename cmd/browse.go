package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/tui"
	img "github.com/HaiFongPan/fsb-cli/internal/tui/image"
	"github.com/HaiFongPan/fsb-cli/internal/tui/messaging"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// runBrowser runs the interactive file browser starting at start
func runBrowser(ctx context.Context, start string) error {
	cfg := GetConfig()

	client, app, err := connect(ctx)
	if err != nil {
		return err
	}

	status := messaging.NewStatusManager()
	history := browser.NewHistory()
	downloads := tui.NewDownloadSink(client, utils.NewFileDownloader(cfg.UI.DownloadDir))

	var program *tea.Program
	ctrl, err := browser.NewController(browser.Options{
		API:       client,
		App:       app,
		Notifier:  status,
		Navigator: history,
		Downloads: downloads,
		OnUnauthorized: func() {
			go program.Send(tui.SessionExpiredMsg{})
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}

	model := tui.NewFileBrowserModel(tui.Options{
		Controller: ctrl,
		History:    history,
		Status:     status,
		Downloads:  downloads,
		App:        app,
		BaseURL:    client.BaseURL(),
		StartPath:  browser.Normalize(start),
		Renderer:   img.NewRenderer(cfg.UI.PreviewCols, cfg.UI.PreviewRows),
	})

	// Launch interactive browser with bubbletea
	program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Set program reference in model for direct messaging
	model.SetProgram(program)

	logrus.WithField("path", start).Info("starting file browser")
	if _, err := program.Run(); err != nil {
		return err
	}
	if model.Expired() {
		return errors.New("session expired, run 'fsb-cli login' to sign in again")
	}
	return nil
}
