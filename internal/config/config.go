package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppDirName is the per-user configuration directory under $HOME
const AppDirName = ".fsb-cli"

// Config holds the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Upload  UploadConfig  `mapstructure:"upload"`
	UI      UIConfig      `mapstructure:"ui"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig describes how to reach the file server
type ServerConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	Timeout            int    `mapstructure:"timeout"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// TimeoutDuration returns the request timeout
func (s ServerConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// LimitsConfig holds transfer limits used when the server does not report them
type LimitsConfig struct {
	MaxFileUpload   int64 `mapstructure:"max_file_upload"`
	MaxFileDownload int64 `mapstructure:"max_file_download"`
}

// UploadConfig holds the fallback extension tables
type UploadConfig struct {
	ExtTable     string `mapstructure:"ext_table"`
	ArchiveTable string `mapstructure:"archive_table"`
}

// UIConfig holds user interface configuration
type UIConfig struct {
	PageSize    int    `mapstructure:"page_size"`
	DownloadDir string `mapstructure:"download_dir"`
	PreviewCols int    `mapstructure:"preview_cols"`
	PreviewRows int    `mapstructure:"preview_rows"`
}

// MetricsConfig controls the Prometheus textfile written on exit
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Option overrides a loaded value, used for command line flags
type Option func(v *viper.Viper)

// WithBaseURL overrides server.base_url. An empty url keeps the loaded value.
func WithBaseURL(url string) Option {
	return func(v *viper.Viper) {
		if url != "" {
			v.Set("server.base_url", url)
		}
	}
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string, opts ...Option) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("FSBCLI")
	v.AutomaticEnv()

	// Environment variable mappings. Names must not equal FSBCLI_<section>,
	// AutomaticEnv would resolve the whole section to that string.
	v.BindEnv("server.base_url", "FSBCLI_BASE_URL")
	v.BindEnv("server.timeout", "FSBCLI_TIMEOUT")
	v.BindEnv("server.insecure_skip_verify", "FSBCLI_INSECURE")
	v.BindEnv("log.level", "FSBCLI_LOG_LEVEL")
	v.BindEnv("log.format", "FSBCLI_LOG_FORMAT")
	v.BindEnv("log.file", "FSBCLI_LOG_FILE")
	v.BindEnv("limits.max_file_upload", "FSBCLI_MAX_FILE_UPLOAD")
	v.BindEnv("limits.max_file_download", "FSBCLI_MAX_FILE_DOWNLOAD")
	v.BindEnv("upload.ext_table", "FSBCLI_EXT_TABLE")
	v.BindEnv("upload.archive_table", "FSBCLI_ARCHIVE_TABLE")
	v.BindEnv("ui.page_size", "FSBCLI_PAGE_SIZE")
	v.BindEnv("ui.download_dir", "FSBCLI_DOWNLOAD_DIR")
	v.BindEnv("metrics.textfile", "FSBCLI_METRICS_TEXTFILE")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/" + AppDirName)
		v.AddConfigPath("/etc/fsb-cli/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	for _, opt := range opts {
		opt(v)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.timeout", 30)
	v.SetDefault("server.insecure_skip_verify", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "/tmp/fsb-cli/app.log")

	v.SetDefault("limits.max_file_upload", int64(5)<<30)
	v.SetDefault("limits.max_file_download", int64(10)<<30)

	v.SetDefault("upload.ext_table", "")
	v.SetDefault("upload.archive_table", ".zip,.tar,.rar,.gz,.bz2")

	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.download_dir", "")
	v.SetDefault("ui.preview_cols", 80)
	v.SetDefault("ui.preview_rows", 24)

	v.SetDefault("metrics.textfile", "")
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, AppDirName, "config.toml")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	configPath := GetDefaultConfigPath()
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0700)
}
