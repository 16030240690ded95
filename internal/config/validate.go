package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/persistence/middleware"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validateAutosave(); err != nil {
		return err
	}
	if err := c.validateArtifact(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Ledger.RedisURL == "" {
			return errors.New("ledger.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("ledger.backend %q is not one of memory, file, redis, sqlite", c.Ledger.Backend)
	}

	if c.Ledger.Slot != filepath.Base(c.Ledger.Slot) || c.Ledger.Slot == "." || c.Ledger.Slot == ".." {
		return fmt.Errorf("ledger.slot %q must be a plain name", c.Ledger.Slot)
	}
	if c.Ledger.RedisTTL != "" {
		d, err := time.ParseDuration(c.Ledger.RedisTTL)
		if err != nil {
			return fmt.Errorf("ledger.redis_ttl: %w", err)
		}
		if d < 0 {
			return errors.New("ledger.redis_ttl must not be negative")
		}
	}
	if _, err := domain.ParseEntryKind(c.Ledger.EntrySchema); err != nil {
		return fmt.Errorf("ledger.entry_schema: %w", err)
	}

	if c.Ledger.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Ledger.EncryptionKey); err != nil {
			return fmt.Errorf("ledger.encryption_key: %w", err)
		}
	} else if len(c.Ledger.FallbackKeys) > 0 {
		return errors.New("ledger.fallback_keys requires ledger.encryption_key")
	}
	for i, k := range c.Ledger.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			return fmt.Errorf("ledger.fallback_keys[%d]: %w", i, err)
		}
	}
	for _, p := range c.Ledger.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("ledger.redact %q: %w", p, err)
		}
	}
	return nil
}

func (c *Config) validateAutosave() error {
	if c.Autosave.DebounceMS < 0 {
		return errors.New("autosave.debounce_ms must not be negative")
	}
	return nil
}

func (c *Config) validateArtifact() error {
	if _, ok := artifact.ParseEmptyPolicy(c.Artifact.EmptyPolicy); !ok {
		return fmt.Errorf("artifact.empty_policy %q is not one of placeholder, omit", c.Artifact.EmptyPolicy)
	}
	if c.Artifact.Filename != filepath.Base(c.Artifact.Filename) {
		return fmt.Errorf("artifact.filename %q must not contain directories", c.Artifact.Filename)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}
