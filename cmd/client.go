package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/config"
	"github.com/HaiFongPan/fsb-cli/internal/session"
	"github.com/HaiFongPan/fsb-cli/internal/tui/theme"
)

// errNotSignedIn is wrapped around bootstrap failures that a login fixes
var errNotSignedIn = errors.New("not signed in, run 'fsb-cli login' first")

var stdin = bufio.NewReader(os.Stdin)

// newClient creates the API client from the global configuration
func newClient() (*api.Client, error) {
	cfg := GetConfig()
	client, err := api.New(api.Config{
		BaseURL:            cfg.Server.BaseURL,
		Timeout:            cfg.Server.TimeoutDuration(),
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// newSession binds a session manager to client and the local user data
func newSession(client *api.Client) (*session.Manager, error) {
	data, err := config.LoadUserData()
	if err != nil {
		return nil, fmt.Errorf("failed to load user data: %w", err)
	}
	return session.New(client, GetConfig(), data), nil
}

// connect restores the saved session, signing in again with remembered
// credentials when allowed, and returns the client with the app context
func connect(ctx context.Context) (*api.Client, *browser.AppContext, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	sess, err := newSession(client)
	if err != nil {
		return nil, nil, err
	}

	app, err := sess.Bootstrap(ctx)
	if err != nil {
		if api.IsUnauthorized(err) || errors.Is(err, session.ErrCaptchaRequired) {
			return nil, nil, fmt.Errorf("%w (%v)", errNotSignedIn, err)
		}
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{"user": app.User.Name, "level": app.Level()}).Debug("connected")
	return client, app, nil
}

// printNotifier prints controller notifications to stderr
func printNotifier() browser.Notifier {
	return browser.NotifyFunc(func(level browser.Level, text string) {
		if quiet && level < browser.LevelWarning {
			return
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", theme.MessageIcon(level), text)
	})
}

// newController builds a controller for one-shot commands
func newController(client *api.Client, app *browser.AppContext, downloads browser.DownloadSink) (*browser.Controller, error) {
	return browser.NewController(browser.Options{
		API:       client,
		App:       app,
		Notifier:  printNotifier(),
		Downloads: downloads,
	})
}

// remoteKey turns a user-typed remote path into an identity key without a
// trailing separator
func remoteKey(p string) string {
	return path.Clean("/" + strings.TrimSpace(p))
}

// isDirArg reports whether the user marked p as a directory
func isDirArg(p string) bool {
	return strings.HasSuffix(p, browser.Separator)
}

// confirm asks a yes/no question on stdin
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	response, _ := stdin.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// prompt reads one line from stdin, returning def for empty input
func prompt(label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := stdin.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
