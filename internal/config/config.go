package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "reel"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// file is where the config was read from, empty when defaults are in use
	file string
}

// APIConfig holds backend connection settings
type APIConfig struct {
	URL               string        `mapstructure:"url"` // e.g. http://localhost:8000/api
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`         // retries for 5xx on reads
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables throttling
}

// StorageConfig holds the location of the durable session file
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme   string `mapstructure:"theme"`
	PerPage int    `mapstructure:"per_page"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:           30 * time.Second,
			MaxRetries:        2,
			RequestsPerSecond: 10,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "session.db"),
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			Theme:   "default",
			PerPage: 12,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "reel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the directory for logs and session data
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// REEL_API_URL overrides api.url, etc.
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about
	d := DefaultConfig()
	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.max_retries", d.API.MaxRetries)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("player.command", d.Player.Command)
	v.SetDefault("player.args", d.Player.Args)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.per_page", d.UI.PerPage)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from file (or the default search path when file
// is empty) and applies environment overrides. A missing file is not an error.
func Load(file string) (*Config, error) {
	v := newViper()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		// Config file not found is OK, use defaults
		if !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.file = v.ConfigFileUsed()
	if cfg.file == "" {
		cfg.file = file
	}
	cfg.API.URL = strings.TrimRight(cfg.API.URL, "/")

	return cfg, nil
}

// File returns the path the configuration is saved to
func (c *Config) File() string {
	if c.file != "" {
		return c.file
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveConfig writes cfg to its file, creating the directory if needed
func SaveConfig(cfg *Config) error {
	configFile := cfg.File()

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("api.url", cfg.API.URL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.max_retries", cfg.API.MaxRetries)
	v.Set("api.requests_per_second", cfg.API.RequestsPerSecond)

	v.Set("storage.path", cfg.Storage.Path)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.per_page", cfg.UI.PerPage)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg.file = configFile
	return nil
}

// IsConfigured returns true if the API URL is set
func (c *Config) IsConfigured() bool {
	return c.API.URL != ""
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// SaveAPIURL records the backend URL chosen during setup and saves cfg
func SaveAPIURL(cfg *Config, apiURL string) error {
	cfg.API.URL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	return SaveConfig(cfg)
}
