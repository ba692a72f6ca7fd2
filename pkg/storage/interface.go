package storage

import (
	"context"
	"time"

	"github.com/Sriram-PR/docnav/pkg/models"
)

// IndexStore caches extracted document indexes between runs
type IndexStore interface {
	// GetEntry retrieves the cached entry for a document
	// Returns status (EntryStatusFound, EntryStatusNotFound, EntryStatusCorrupt, EntryStatusDBError),
	// the DocumentEntry if found and decoded, and any error
	GetEntry(category, slug string) (status models.EntryStatus, entry *models.DocumentEntry, err error)

	// PutEntry stores or replaces the entry for entry.Ref
	PutEntry(entry *models.DocumentEntry) error

	// DeleteEntry removes a document's entry; a missing entry is not an error
	DeleteEntry(category, slug string) error

	// ListEntries returns every stored entry, ordered by key
	ListEntries(ctx context.Context) ([]models.DocumentEntry, error)
}

// StoreAdmin handles lifecycle and administrative operations
type StoreAdmin interface {
	// GetEntryCount returns the number of stored entries
	GetEntryCount() (int, error)

	// RunGC runs periodic garbage collection. Should be run in a goroutine
	RunGC(ctx context.Context, interval time.Duration)

	// Close cleanly closes the database connection
	Close() error
}

// CatalogStore combines all store interfaces for components that need full access
type CatalogStore interface {
	IndexStore
	StoreAdmin
}
