package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/session"
	img "github.com/HaiFongPan/fsb-cli/internal/tui/image"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

var (
	loginName      string
	loginRemember  bool
	loginAutoLogin bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the server",
	Long: `Sign in and keep the session for later commands. With --remember the
name and password are stored in the user data file; --auto-login also
signs in again automatically when the session expires.

When the server asks for a CAPTCHA, the image is drawn in the terminal.`,
	Args: cobra.NoArgs,
	RunE: login,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the remembered password",
	Args:  cobra.NoArgs,
	RunE:  logout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and the transfer limits",
	Args:  cobra.NoArgs,
	RunE:  whoami,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  changePassword,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)

	loginCmd.Flags().StringVarP(&loginName, "name", "u", "", "user name (prompted when empty)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false, "remember name and password")
	loginCmd.Flags().BoolVar(&loginAutoLogin, "auto-login", false, "sign in again automatically when the session expires")
}

// readPassword reads a password from the terminal without echo
func readPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// solveCaptcha draws the CAPTCHA image with half blocks and asks for the answer
func solveCaptcha(ctx context.Context, data []byte) (string, error) {
	p, err := img.NewRenderer(40, 8).Render("captcha", data)
	if err != nil {
		return "", fmt.Errorf("failed to show captcha: %w", err)
	}
	fmt.Println(p.Rendered)
	answer := prompt("Captcha", "")
	if answer == "" {
		return "", errors.New("no captcha answer given")
	}
	return answer, nil
}

func login(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newClient()
	if err != nil {
		return err
	}
	sess, err := newSession(client)
	if err != nil {
		return err
	}

	name := loginName
	if name == "" {
		name = prompt("Name", sess.Remembered())
	}
	if name == "" {
		return errors.New("user name is required")
	}
	password, err := readPassword("Password")
	if err != nil {
		return err
	}

	err = sess.Login(ctx, session.Credentials{
		Name:      name,
		Password:  password,
		Remember:  loginRemember || loginAutoLogin,
		AutoLogin: loginAutoLogin,
	}, solveCaptcha)
	if err != nil {
		if api.IsBadCredentials(err) {
			return errors.New("wrong user name or password")
		}
		return err
	}

	logrus.WithField("user", name).Info("signed in")
	fmt.Printf("Signed in as %s\n", name)
	return nil
}

func logout(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	sess, err := newSession(client)
	if err != nil {
		return err
	}
	if err := sess.Logout(cmd.Context()); err != nil && !api.IsUnauthorized(err) {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func whoami(cmd *cobra.Command, args []string) error {
	_, app, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	u := app.User
	fmt.Printf("Name:           %s\n", u.Name)
	if u.RealName != "" {
		fmt.Printf("Real name:      %s\n", u.RealName)
	}
	if u.Department != "" {
		fmt.Printf("Department:     %s\n", u.Department)
	}
	fmt.Printf("Class:          %s (level %d)\n", u.Class, app.Level())
	if u.LastLoginTime > 0 {
		fmt.Printf("Last login:     %s (%s) from %s\n",
			utils.FormatUnix(u.LastLoginTime), utils.FormatAge(u.LastLoginTime), utils.FormatIP(u.LastIp))
	}
	fmt.Printf("Upload limit:   %s\n", humanize.IBytes(uint64(app.Limits.MaxFileUpload)))
	fmt.Printf("Download limit: %s\n", humanize.IBytes(uint64(app.Limits.MaxFileDownload)))
	return nil
}

func changePassword(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := connect(ctx)
	if err != nil {
		return err
	}

	oldPassword, err := readPassword("Current password")
	if err != nil {
		return err
	}
	newPassword, err := readPassword("New password")
	if err != nil {
		return err
	}
	again, err := readPassword("Repeat new password")
	if err != nil {
		return err
	}
	if again != newPassword {
		return errors.New("passwords do not match")
	}

	err = client.ResetPassword(ctx, oldPassword, newPassword, "")
	for attempt := 1; err != nil && api.NeedsCaptcha(err) && attempt <= 3; attempt++ {
		data, cerr := client.Captcha(ctx)
		if cerr != nil {
			return cerr
		}
		answer, cerr := solveCaptcha(ctx, data)
		if cerr != nil {
			return cerr
		}
		err = client.ResetPassword(ctx, oldPassword, newPassword, answer)
	}
	if err != nil {
		if api.IsBadCredentials(err) {
			return errors.New("current password is wrong")
		}
		return err
	}
	fmt.Println("Password changed")
	return nil
}
