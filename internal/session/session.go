// Package session signs the user in, replays remembered credentials and
// builds the application context from the current user and server config.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/config"
	"github.com/sirupsen/logrus"
)

// maxLoginAttempts bounds the CAPTCHA retry loop
const maxLoginAttempts = 3

// ErrCaptchaRequired is returned when the server wants a CAPTCHA and no solver is available
var ErrCaptchaRequired = errors.New("captcha required")

// Client is the part of the API client the session needs
type Client interface {
	BaseURL() string
	Me(ctx context.Context) (api.UserInfo, error)
	SysConfig(ctx context.Context) (api.SysConfig, error)
	Login(ctx context.Context, form api.LoginForm) error
	Logout(ctx context.Context) error
	Captcha(ctx context.Context) ([]byte, error)
	Cookies() map[string]string
	SetCookies(map[string]string)
}

// CaptchaSolver shows a CAPTCHA image to the user and returns the answer
type CaptchaSolver func(ctx context.Context, image []byte) (string, error)

// Credentials is what the user typed at the login prompt
type Credentials struct {
	Name      string
	Password  string
	Remember  bool
	AutoLogin bool
}

// Manager owns the persisted session state for one server
type Manager struct {
	client Client
	cfg    *config.Config
	data   *config.UserData
}

// New binds a manager to a client, the loaded configuration and the user data
// file. Cookies saved for the same server are restored into the client.
func New(client Client, cfg *config.Config, data *config.UserData) *Manager {
	m := &Manager{client: client, cfg: cfg, data: data}
	if data.Server == client.BaseURL() && len(data.Cookies) > 0 {
		client.SetCookies(data.Cookies)
	}
	return m
}

// Bootstrap fetches the current user, signing in with remembered
// credentials when the session has expired, and then the server config.
// A server refusing its config falls back to the local limits and tables.
func (m *Manager) Bootstrap(ctx context.Context) (*browser.AppContext, error) {
	user, err := m.client.Me(ctx)
	if api.IsUnauthorized(err) && m.data.CanAutoLogin(m.client.BaseURL()) {
		logrus.WithField("user", m.data.Name).Info("session expired, signing in with remembered credentials")
		if lerr := m.login(ctx, api.LoginForm{Name: m.data.Name, Password: m.data.Password}, nil); lerr != nil {
			return nil, fmt.Errorf("auto-login failed: %w", lerr)
		}
		user, err = m.client.Me(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	conf, err := m.client.SysConfig(ctx)
	if err != nil {
		if !api.IsForbidden(err) {
			return nil, fmt.Errorf("failed to fetch server config: %w", err)
		}
		logrus.Debug("server config not readable for this user, using local limits")
		conf = api.SysConfig{}
	}

	m.saveCookies()
	logrus.WithFields(logrus.Fields{"user": user.Name, "class": user.Class}).Debug("session ready")

	return browser.NewAppContext(
		user,
		conf,
		browser.Limits{
			MaxFileUpload:   m.cfg.Limits.MaxFileUpload,
			MaxFileDownload: m.cfg.Limits.MaxFileDownload,
		},
		m.cfg.Upload.ExtTable,
		m.cfg.Upload.ArchiveTable,
	), nil
}

// Login signs in, asking solve for a CAPTCHA whenever the server requires one,
// and remembers the credentials as requested
func (m *Manager) Login(ctx context.Context, creds Credentials, solve CaptchaSolver) error {
	form := api.LoginForm{Name: creds.Name, Password: creds.Password}
	if err := m.login(ctx, form, solve); err != nil {
		return err
	}
	if err := m.data.Remember(m.client.BaseURL(), creds.Name, creds.Password, creds.Remember, creds.AutoLogin); err != nil {
		logrus.WithError(err).Warn("failed to save user data")
	}
	m.saveCookies()
	return nil
}

func (m *Manager) login(ctx context.Context, form api.LoginForm, solve CaptchaSolver) error {
	needCaptcha := m.data.CaptchaRequired

	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		if needCaptcha {
			if solve == nil {
				return ErrCaptchaRequired
			}
			img, err := m.client.Captcha(ctx)
			if err != nil {
				return err
			}
			answer, err := solve(ctx, img)
			if err != nil {
				return err
			}
			form.Captcha = answer
		}

		err := m.client.Login(ctx, form)
		if err == nil {
			m.setCaptchaRequired(false)
			return nil
		}
		if !api.NeedsCaptcha(err) {
			return err
		}

		logrus.WithField("attempt", attempt).Debug("server asked for a captcha")
		needCaptcha = true
		m.setCaptchaRequired(true)
	}
	return fmt.Errorf("login failed after %d attempts: %w", maxLoginAttempts, ErrCaptchaRequired)
}

// Logout ends the server session and forgets the remembered password
func (m *Manager) Logout(ctx context.Context) error {
	err := m.client.Logout(ctx)
	if ferr := m.data.Forget(); ferr != nil {
		logrus.WithError(ferr).Warn("failed to save user data")
	}
	return err
}

// Remembered returns the remembered user name
func (m *Manager) Remembered() string {
	return m.data.Name
}

func (m *Manager) setCaptchaRequired(v bool) {
	if err := m.data.SetCaptchaRequired(v); err != nil {
		logrus.WithError(err).Warn("failed to save user data")
	}
}

func (m *Manager) saveCookies() {
	cookies := m.client.Cookies()
	if len(cookies) == 0 {
		return
	}
	if err := m.data.SetCookies(m.client.BaseURL(), cookies); err != nil {
		logrus.WithError(err).Warn("failed to save session cookies")
	}
}
