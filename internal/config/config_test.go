package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[server]
base_url = "http://files.example.com:8080"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://files.example.com:8080", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int64(5)<<30, cfg.Limits.MaxFileUpload)
	assert.Equal(t, int64(10)<<30, cfg.Limits.MaxFileDownload)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
[server]
base_url = "https://files.example.com"
timeout = 5

[log]
level = "debug"
format = "json"

[upload]
ext_table = ".txt,.png"

[ui]
page_size = 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Server.Timeout)
	assert.Equal(t, "5s", cfg.Server.TimeoutDuration().String())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ".txt,.png", cfg.Upload.ExtTable)
	assert.Equal(t, 25, cfg.UI.PageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
base_url = "http://a.example.com"
`)
	t.Setenv("FSBCLI_BASE_URL", "http://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://b.example.com", cfg.Server.BaseURL)
}

func TestLoad_EnvWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FSBCLI_BASE_URL", "http://b.example.com")
	t.Setenv("FSBCLI_TIMEOUT", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://b.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 7, cfg.Server.Timeout)
}

func TestLoad_BaseURLFlagWins(t *testing.T) {
	path := writeConfig(t, `
[server]
base_url = "http://a.example.com"
`)
	t.Setenv("FSBCLI_BASE_URL", "http://b.example.com")

	cfg, err := Load(path, WithBaseURL("http://c.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "http://c.example.com", cfg.Server.BaseURL)

	// 空值不覆盖
	cfg, err = Load(path, WithBaseURL(""))
	require.NoError(t, err)
	assert.Equal(t, "http://b.example.com", cfg.Server.BaseURL)
}

func TestLoad_BaseURLFlagWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := Load("")
	require.Error(t, err)

	cfg, err := Load("", WithBaseURL("http://c.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "http://c.example.com", cfg.Server.BaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{BaseURL: "http://localhost:8080", Timeout: 30},
			Log:    LogConfig{Level: "info", Format: "text"},
			UI:     UIConfig{PageSize: 10},
		}
	}
	require.NoError(t, Validate(valid()))

	cases := map[string]func(*Config){
		"missing base url": func(c *Config) { c.Server.BaseURL = "" },
		"bad scheme":       func(c *Config) { c.Server.BaseURL = "ftp://host" },
		"no host":          func(c *Config) { c.Server.BaseURL = "http://" },
		"zero timeout":     func(c *Config) { c.Server.Timeout = 0 },
		"bad log level":    func(c *Config) { c.Log.Level = "loud" },
		"bad log format":   func(c *Config) { c.Log.Format = "xml" },
		"negative limit":   func(c *Config) { c.Limits.MaxFileUpload = -1 },
		"odd page size":    func(c *Config) { c.UI.PageSize = 7 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, Validate(c))
		})
	}
}

func TestUserData_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "user.data")

	ud, err := LoadUserDataFrom(path)
	require.NoError(t, err)
	assert.Empty(t, ud.Name)
	assert.Equal(t, path, ud.Path())

	require.NoError(t, ud.Remember("http://h", "alice", "secret", true, true))
	require.NoError(t, ud.SetCookies("http://h", map[string]string{"anti_csrf_token": "t"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadUserDataFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Name)
	assert.True(t, loaded.CanAutoLogin("http://h"))
	assert.False(t, loaded.CanAutoLogin("http://other"))
	assert.Equal(t, "t", loaded.Cookies["anti_csrf_token"])

	require.NoError(t, loaded.Forget())
	again, _ := LoadUserDataFrom(path)
	assert.Equal(t, "alice", again.Name)
	assert.Empty(t, again.Password)
	assert.False(t, again.AutoLogin)
	assert.Nil(t, again.Cookies)
}

func TestUserData_RememberWithoutPassword(t *testing.T) {
	ud, _ := LoadUserDataFrom(filepath.Join(t.TempDir(), "user.data"))
	require.NoError(t, ud.Remember("http://h", "bob", "pw", false, true))
	assert.Empty(t, ud.Password)
	assert.False(t, ud.AutoLogin)
	assert.False(t, ud.CanAutoLogin("http://h"))
}

func TestUserData_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.data")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	ud, err := LoadUserDataFrom(path)
	require.NoError(t, err)
	assert.Empty(t, ud.Name)
}
