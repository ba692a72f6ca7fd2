package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/log"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/utils"
)

const (
	docKeyPrefix = "doc:"      // Prefix for document entry keys in DB
	indexDBDir   = "index_db" // Subdirectory name within stateDir for Badger DB files
)

// BadgerStore implements the CatalogStore interface using BadgerDB
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64 // Cached key count for O(1) GetEntryCount
}

var _ CatalogStore = (*BadgerStore)(nil)

// NewBadgerStore opens the index database under stateDir.
// With reuse=false any existing database is wiped first, forcing a full re-index.
func NewBadgerStore(stateDir string, reuse bool, logger *logrus.Entry) (*BadgerStore, error) {
	store := &BadgerStore{log: logger}

	dbPath := filepath.Join(stateDir, indexDBDir)

	if !reuse {
		logger.Warnf("Reuse flag is false. REMOVING existing index directory: %s", dbPath)
		if err := os.RemoveAll(dbPath); err != nil {
			logger.Errorf("Failed to remove existing index directory %s: %v", dbPath, err)
		}
	}

	logger.Infof("Initializing document index database at: %s (Reuse: %v)", dbPath, reuse)

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("%w: cannot create state directory %s: %w", utils.ErrFilesystem, dbPath, err)
	}

	opts := badger.DefaultOptions(dbPath).
		WithLogger(log.NewBadgerLogger(logger.WithField("component", "badgerdb"))).
		WithNumVersionsToKeep(1)

	var err error
	store.db, err = badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger database at %s: %w", utils.ErrDatabase, dbPath, err)
	}

	if reuse {
		count, err := store.countKeys()
		if err != nil {
			logger.Warnf("Failed to count existing keys on reuse: %v", err)
		} else {
			store.keyCount.Store(int64(count))
			logger.Infof("Loaded %d cached document entries", count)
		}
	}

	return store, nil
}

func docKey(category, slug string) []byte {
	return []byte(docKeyPrefix + category + "/" + slug)
}

// countKeys performs a one-time full key scan (used only when reusing an existing DB).
func (s *BadgerStore) countKeys() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(docKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// GetEntry implements the IndexStore interface
func (s *BadgerStore) GetEntry(category, slug string) (models.EntryStatus, *models.DocumentEntry, error) {
	status := models.EntryStatusNotFound
	var entry *models.DocumentEntry
	key := docKey(category, slug)

	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: failed getting key '%s': %w", utils.ErrDatabase, string(key), errGet)
		}

		return item.Value(func(val []byte) error {
			var decoded models.DocumentEntry
			if errJson := json.Unmarshal(val, &decoded); errJson != nil {
				s.log.Warnf("Failed to unmarshal DocumentEntry for key '%s': %v. Treating as 'corrupt'.", string(key), errJson)
				status = models.EntryStatusCorrupt
				return nil
			}
			entry = &decoded
			status = models.EntryStatusFound
			return nil
		})
	})

	if errView != nil {
		s.log.Errorf("DB View error in GetEntry for key '%s': %v", string(key), errView)
		return models.EntryStatusDBError, nil, errView
	}
	return status, entry, nil
}

// PutEntry implements the IndexStore interface
func (s *BadgerStore) PutEntry(entry *models.DocumentEntry) error {
	key := docKey(entry.Ref.Category, entry.Ref.Slug)

	entryBytes, errJson := json.Marshal(entry)
	if errJson != nil {
		return fmt.Errorf("%w: failed to marshal JSON DocumentEntry for key '%s': %w", utils.ErrParsing, string(key), errJson)
	}

	isNew := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		isNew = false
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			isNew = true
		} else if errGet != nil {
			return errGet
		}
		return txn.SetEntry(badger.NewEntry(key, entryBytes))
	})
	if err != nil {
		s.log.WithField("key", string(key)).Errorf("DB Update error in PutEntry: %v", err)
		return fmt.Errorf("%w: failed storing key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if isNew {
		s.keyCount.Add(1)
	}

	s.log.Debugf("Stored index for '%s' (%d headings)", string(key), len(entry.Headings))
	return nil
}

// DeleteEntry implements the IndexStore interface
func (s *BadgerStore) DeleteEntry(category, slug string) error {
	key := docKey(category, slug)
	existed := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		existed = false
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return errGet
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("%w: failed deleting key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if existed {
		s.keyCount.Add(-1)
	}
	return nil
}

// ListEntries implements the IndexStore interface
func (s *BadgerStore) ListEntries(ctx context.Context) ([]models.DocumentEntry, error) {
	var entries []models.DocumentEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			errValue := item.Value(func(val []byte) error {
				var decoded models.DocumentEntry
				if errJson := json.Unmarshal(val, &decoded); errJson != nil {
					s.log.Warnf("Skipping undecodable entry '%s': %v", string(item.Key()), errJson)
					return nil
				}
				entries = append(entries, decoded)
				return nil
			})
			if errValue != nil {
				return errValue
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: listing entries: %w", utils.ErrDatabase, err)
	}
	return entries, nil
}

// GetEntryCount implements the StoreAdmin interface.
func (s *BadgerStore) GetEntryCount() (int, error) {
	return int(s.keyCount.Load()), nil
}

// RunGC runs BadgerDB's value log garbage collection periodically
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.db == nil || s.db.IsClosed() {
				continue
			}
			var err error
			for {
				// Rewrite while at least half of a value log file is reclaimable
				if err = s.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
			if !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Errorf("BadgerDB GC error: %v", err)
			}
		case <-ctx.Done():
			s.log.Debugf("Stopping BadgerDB GC: %v", ctx.Err())
			return
		}
	}
}

// Close implements the StoreAdmin interface
func (s *BadgerStore) Close() error {
	if s.db != nil && !s.db.IsClosed() {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing index DB: %v", err)
			return err
		}
		s.log.Info("Index DB closed.")
	}
	return nil
}
