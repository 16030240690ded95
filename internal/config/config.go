package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalog points at the step catalog: a steps.json/steps.yaml file, a directory of
// Markdown step documents, or an http(s) URL.
type Catalog struct {
	Path string `toml:"path"`
}

// Ledger selects where answers are persisted.
type Ledger struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	Slot          string   `toml:"slot"`
	RedisURL      string   `toml:"redis_url"`
	RedisTTL      string   `toml:"redis_ttl"`
	SQLitePath    string   `toml:"sqlite_path"`
	EncryptionKey string   `toml:"encryption_key"`
	FallbackKeys  []string `toml:"fallback_keys"`
	Redact        []string `toml:"redact"`
	EntrySchema   string   `toml:"entry_schema"`
}

// Autosave tunes the typing debounce.
type Autosave struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Artifact tunes the compiled ledger text.
type Artifact struct {
	EmptyPolicy string   `toml:"empty_policy"`
	Filename    string   `toml:"filename"`
	InkNotice   bool     `toml:"ink_notice"`
	Title       string   `toml:"title"`
	Preamble    []string `toml:"preamble"`
}

// Server contains the HTTP bind address.
type Server struct {
	Addr string `toml:"addr"`
}

// Log contains configuration for log output.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for journey.
type Config struct {
	Catalog  Catalog  `toml:"catalog"`
	Ledger   Ledger   `toml:"ledger"`
	Autosave Autosave `toml:"autosave"`
	Artifact Artifact `toml:"artifact"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/journey/config.toml")
}

// SampleConfig returns a commented configuration file with the default values.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, normalizes and validates a configuration file.
// It returns the config, the path it resolved and whether that file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("journey.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Debounce returns the autosave delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Autosave.DebounceMS) * time.Millisecond
}

// RedisTTL returns the parsed ledger.redis_ttl; zero means no expiry.
func (c *Config) RedisTTL() time.Duration {
	if c.Ledger.RedisTTL == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Ledger.RedisTTL)
	return d
}

// LedgerDir returns the directory holding file ledgers.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.Ledger.Dir, "ledgers")
}

// CursorPath returns the file holding the navigation cursor of the configured slot.
func (c *Config) CursorPath() string {
	return filepath.Join(c.Ledger.Dir, c.Ledger.Slot+".cursor")
}

// EnsureDirectories creates the data directory for local backends.
func (c *Config) EnsureDirectories() error {
	if c.Ledger.Backend == BackendMemory {
		return nil
	}
	dirs := []string{c.Ledger.Dir}
	if c.Ledger.Backend == BackendFile {
		dirs = append(dirs, c.LedgerDir())
	}
	if c.Ledger.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Ledger.SQLitePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
