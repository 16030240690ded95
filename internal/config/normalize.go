package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
)

func (c *Config) normalize() error {
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeArtifact()
	c.normalizeLogging()
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Autosave.DebounceMS == 0 {
		c.Autosave.DebounceMS = defaultDebounceMS
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if catalog.IsURL(c.Catalog.Path) {
		return nil
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	c.Ledger.Backend = strings.ToLower(strings.TrimSpace(c.Ledger.Backend))
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = defaultBackend
	}
	c.Ledger.Slot = strings.TrimSpace(c.Ledger.Slot)
	if c.Ledger.Slot == "" {
		c.Ledger.Slot = domain.DefaultSlot
	}
	if strings.TrimSpace(c.Ledger.Dir) == "" {
		c.Ledger.Dir = defaultDataDir
	}

	var err error
	if c.Ledger.Dir, err = expandPath(c.Ledger.Dir); err != nil {
		return fmt.Errorf("ledger.dir: %w", err)
	}
	if strings.TrimSpace(c.Ledger.SQLitePath) == "" {
		c.Ledger.SQLitePath = filepath.Join(c.Ledger.Dir, defaultSQLiteFile)
	}
	if c.Ledger.SQLitePath != ":memory:" {
		if c.Ledger.SQLitePath, err = expandPath(c.Ledger.SQLitePath); err != nil {
			return fmt.Errorf("ledger.sqlite_path: %w", err)
		}
	}

	if c.Ledger.EncryptionKey == "" {
		if value, ok := os.LookupEnv(EnvEncryptionKey); ok {
			c.Ledger.EncryptionKey = strings.TrimSpace(value)
		}
	}
	c.Ledger.RedisURL = strings.TrimSpace(c.Ledger.RedisURL)
	c.Ledger.RedisTTL = strings.TrimSpace(c.Ledger.RedisTTL)
	c.Ledger.EntrySchema = strings.ToLower(strings.TrimSpace(c.Ledger.EntrySchema))
	if c.Ledger.EntrySchema == "" {
		c.Ledger.EntrySchema = string(domain.EntryDual)
	}
	return nil
}

func (c *Config) normalizeArtifact() {
	c.Artifact.EmptyPolicy = strings.ToLower(strings.TrimSpace(c.Artifact.EmptyPolicy))
	if c.Artifact.EmptyPolicy == "" {
		c.Artifact.EmptyPolicy = Default().Artifact.EmptyPolicy
	}
	c.Artifact.Filename = strings.TrimSpace(c.Artifact.Filename)
	if c.Artifact.Filename == "" {
		c.Artifact.Filename = Default().Artifact.Filename
	}
}

func (c *Config) normalizeLogging() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}
