package config

import (
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "JOURNEY_CONFIG"
	// EnvEncryptionKey supplies ledger.encryption_key when the file leaves it empty.
	EnvEncryptionKey = "JOURNEY_ENCRYPTION_KEY"

	defaultCatalogPath = "steps.json"
	defaultDataDir     = ".journey"
	defaultBackend     = BackendFile
	defaultDebounceMS  = 250
	defaultServerAddr  = "127.0.0.1:8080"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultSQLiteFile  = "journey.db"
)

// Ledger backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Default returns a configuration populated with the built-in defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Ledger: Ledger{
			Backend:     defaultBackend,
			Dir:         defaultDataDir,
			Slot:        domain.DefaultSlot,
			EntrySchema: string(domain.EntryDual),
		},
		Autosave: Autosave{
			DebounceMS: defaultDebounceMS,
		},
		Artifact: Artifact{
			EmptyPolicy: string(artifact.PolicyPlaceholder),
			Filename:    artifact.DefaultFilename,
		},
		Server: Server{
			Addr: defaultServerAddr,
		},
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
