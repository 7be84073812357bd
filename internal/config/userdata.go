package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// UserData holds the remembered session that is stored locally
type UserData struct {
	Server          string            `json:"server"`
	Name            string            `json:"name"`
	Password        string            `json:"password,omitempty"`
	RememberLogin   bool              `json:"remember_login"`
	AutoLogin       bool              `json:"auto_login"`
	CaptchaRequired bool              `json:"captcha_required"`
	Cookies         map[string]string `json:"cookies,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	path string
}

// LoadUserData loads user data from ~/.fsb-cli/user.data
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(""), nil
	}
	return LoadUserDataFrom(userDataPath)
}

// LoadUserDataFrom loads user data from path. A missing or unreadable file
// yields empty defaults bound to the same path.
func LoadUserDataFrom(path string) (*UserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return createDefaultUserData(path), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		// Invalid JSON, return default
		return createDefaultUserData(path), nil
	}
	userData.path = path

	return &userData, nil
}

// SaveUserData writes the user data back with owner-only permissions
func (ud *UserData) SaveUserData() error {
	if ud.path == "" {
		p, err := getUserDataPath()
		if err != nil {
			return err
		}
		ud.path = p
	}

	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(ud.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(ud.path, data, 0600)
}

// Remember stores the credentials of a successful login. The password is
// kept only when remember is set.
func (ud *UserData) Remember(server, name, password string, remember, autoLogin bool) error {
	ud.Server = server
	ud.Name = name
	ud.RememberLogin = remember
	ud.AutoLogin = remember && autoLogin
	ud.Password = ""
	if remember {
		ud.Password = password
	}
	return ud.SaveUserData()
}

// SetCaptchaRequired records whether the server last asked for a CAPTCHA
func (ud *UserData) SetCaptchaRequired(required bool) error {
	if ud.CaptchaRequired == required {
		return nil
	}
	ud.CaptchaRequired = required
	return ud.SaveUserData()
}

// SetCookies stores the session cookies for the next run
func (ud *UserData) SetCookies(server string, cookies map[string]string) error {
	ud.Server = server
	ud.Cookies = cookies
	return ud.SaveUserData()
}

// CanAutoLogin reports whether remembered credentials may be replayed for server
func (ud *UserData) CanAutoLogin(server string) bool {
	return ud.AutoLogin && ud.Server == server && ud.Name != "" && ud.Password != ""
}

// Forget drops the remembered password, auto-login and session cookies
func (ud *UserData) Forget() error {
	ud.Password = ""
	ud.AutoLogin = false
	ud.Cookies = nil
	return ud.SaveUserData()
}

// Path returns the file the data is stored in
func (ud *UserData) Path() string {
	return ud.path
}

// createDefaultUserData creates a new UserData with default values
func createDefaultUserData(path string) *UserData {
	now := time.Now()
	return &UserData{
		CreatedAt: now,
		UpdatedAt: now,
		path:      path,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, AppDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
