package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/gofrs/flock"
	"github.com/goccy/go-json"
)

const (
	ledgerExt = ".json"
	lockExt   = ".lock"
)

// Store implements ports.LedgerStore using the local filesystem.
// Each slot is a JSON file in BasePath. Writes are atomic (temp file, fsync, rename) and
// serialized across processes with an advisory lock file per slot.
type Store struct {
	BasePath string

	// LockRetry is the polling delay while waiting for another process's write lock.
	LockRetry time.Duration
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".journey/ledgers".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".journey", "ledgers")
	}
	return &Store{BasePath: basePath, LockRetry: 20 * time.Millisecond}
}

// Path returns the file that backs a slot.
func (s *Store) Path(slot string) string {
	return filepath.Join(s.BasePath, slot+ledgerExt)
}

func validSlot(slot string) error {
	if slot == "" {
		return fmt.Errorf("slot cannot be empty")
	}
	if strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return fmt.Errorf("invalid slot name %q", slot)
	}
	return nil
}

// withWriteLock holds the cross-process lock of a slot while fn runs.
func (s *Store) withWriteLock(ctx context.Context, slot string, fn func() error) error {
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure ledger directory: %w", err)
	}

	lock := flock.New(filepath.Join(s.BasePath, slot+lockExt))
	locked, err := lock.TryLockContext(ctx, s.LockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock ledger %q: %w", slot, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock ledger %q", slot)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

// Save persists the ledger to its JSON file atomically.
func (s *Store) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	compact, err := domain.EncodeLedger(ledger)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact, "", "  "); err != nil {
		return fmt.Errorf("failed to indent ledger: %w", err)
	}

	return s.withWriteLock(ctx, slot, func() error {
		return writeFileAtomic(s.Path(slot), pretty.Bytes())
	})
}

// Load retrieves the ledger from its JSON file.
func (s *Store) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	ledger, err := domain.DecodeLedger(data)
	if err != nil {
		return nil, fmt.Errorf("ledger %q: %w", slot, err)
	}
	return ledger, nil
}

// Clear removes the ledger file.
func (s *Store) Clear(ctx context.Context, slot string) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	if _, err := os.Stat(s.BasePath); os.IsNotExist(err) {
		return nil
	}

	return s.withWriteLock(ctx, slot, func() error {
		err := os.Remove(s.Path(slot))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete ledger file: %w", err)
		}
		return nil
	})
}

// List returns all slots with a ledger file.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}

	var slots []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ledgerExt || strings.HasPrefix(name, "tmp-") {
			continue
		}
		slots = append(slots, strings.TrimSuffix(name, ledgerExt))
	}
	sort.Strings(slots)
	return slots, nil
}
