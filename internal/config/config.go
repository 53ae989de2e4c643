// Package config handles the callboard configuration directory and the
// stored spreadsheet identifier.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	// AppName is the application directory name under the config root.
	AppName = "callboard"

	// ConfigFileName is the settings file inside the config directory.
	ConfigFileName = "config.yml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// LogFile is the debug log filename.
	LogFile = "callboard.log"

	fileMode = 0o600
	dirMode  = 0o700
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no callboard config found (run 'callboard setup' first)")
	ErrInvalid  = errors.New("invalid config")
)

// Config holds persisted settings. The only state the dashboard keeps across
// runs is the spreadsheet identifier; absence means setup is required.
type Config struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Model         string `yaml:"model,omitempty"` // assistant model override

	// dir is the absolute config directory path (not serialized).
	dir string `yaml:"-"`
}

// DefaultDir returns the default configuration directory. Uses
// XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads the config file from dir. A missing file yields an empty config
// bound to dir (first run), not an error; a malformed file is an error.
func Load(dir string) (*Config, error) {
	cfg := &Config{dir: dir}

	data, err := os.ReadFile(cfg.Path())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.SpreadsheetID = strings.TrimSpace(cfg.SpreadsheetID)
	cfg.dir = dir
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(c.Path(), data, fileMode)
}

// EnsureDir creates the config directory if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.dir, dirMode)
}

// HasSpreadsheet reports whether a spreadsheet identifier is stored.
func (c *Config) HasSpreadsheet() bool {
	return c.SpreadsheetID != ""
}

// Dir returns the absolute config directory path.
func (c *Config) Dir() string { return c.dir }

// Path returns the absolute config file path.
func (c *Config) Path() string { return filepath.Join(c.dir, ConfigFileName) }

// OAuthClientPath returns the OAuth client credentials file path.
func (c *Config) OAuthClientPath() string { return filepath.Join(c.dir, OAuthClientFile) }

// TokenPath returns the stored OAuth token file path.
func (c *Config) TokenPath() string { return filepath.Join(c.dir, TokenFile) }

// LogPath returns the debug log file path.
func (c *Config) LogPath() string { return filepath.Join(c.dir, LogFile) }

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
