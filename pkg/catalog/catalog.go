// Package catalog indexes the configured documentation collections and answers
// (category, slug) lookups for the viewer.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/detect"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/storage"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/utils"
)

// CollectionInfo summarizes one configured collection
type CollectionInfo struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Documents int    `json:"documents"`
	URLSync   bool   `json:"url_sync"`
	URLParam  string `json:"url_param"`
}

// LoadStats reports what a Load pass did
type LoadStats struct {
	Collections int
	Documents   int
	Indexed     int // Extracted from source
	Reused      int // Served from the index store, content unchanged
	Failed      int // Extraction failed; entry kept with an empty index
	Removed     int // Stale store entries deleted
}

// Catalog holds the current index of every document, keyed by category then slug.
// A Load pass builds a complete new snapshot and swaps it in, so readers never
// see a half-indexed collection.
type Catalog struct {
	appCfg *config.AppConfig
	store  storage.IndexStore // optional; nil disables caching
	detect *detect.Detector
	log    *logrus.Entry

	loadMu sync.Mutex // serializes Load passes

	mu       sync.RWMutex
	docs     map[string]map[string]*models.DocumentEntry
	lastLoad time.Time
}

// New creates an empty catalog. Call Load before serving lookups.
func New(appCfg *config.AppConfig, store storage.IndexStore, log *logrus.Entry) *Catalog {
	return &Catalog{
		appCfg: appCfg,
		store:  store,
		detect: detect.NewDetector(log),
		log:    log,
		docs:   make(map[string]map[string]*models.DocumentEntry),
	}
}

// candidate is a file found during the scan, before indexing
type candidate struct {
	ref      models.DocumentRef
	selector string
}

// Load scans every collection and re-indexes documents whose content changed.
// Per-document failures are logged and recorded on the entry; only context
// cancellation aborts the pass.
func (c *Catalog) Load(ctx context.Context) (LoadStats, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	start := time.Now()
	var stats LoadStats
	c.detect.Reset()

	keys := make([]string, 0, len(c.appCfg.Collections))
	for key := range c.appCfg.Collections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var candidates []candidate
	for _, key := range keys {
		colCfg := c.appCfg.Collections[key]
		found, err := c.scanCollection(key, colCfg)
		if err != nil {
			c.log.WithField("collection", key).Errorf("Skipping collection: %v", err)
			continue
		}
		stats.Collections++
		candidates = append(candidates, found...)
	}

	entries := make([]*models.DocumentEntry, len(candidates))
	var indexed, reused, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.appCfg.IndexWorkers, 1))
	for i, cand := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			entry, wasReused := c.indexDocument(cand)
			switch {
			case wasReused:
				reused.Add(1)
			case entry.ErrorType != "":
				failed.Add(1)
			default:
				indexed.Add(1)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("indexing aborted: %w", err)
	}

	next := make(map[string]map[string]*models.DocumentEntry, len(keys))
	for _, key := range keys {
		next[key] = make(map[string]*models.DocumentEntry)
	}
	for _, entry := range entries {
		next[entry.Ref.Category][entry.Ref.Slug] = entry
	}

	stats.Removed = c.pruneStore(ctx, next)
	stats.Documents = len(entries)
	stats.Indexed = int(indexed.Load())
	stats.Reused = int(reused.Load())
	stats.Failed = int(failed.Load())

	c.mu.Lock()
	c.docs = next
	c.lastLoad = time.Now()
	c.mu.Unlock()

	c.log.Infof("Catalog loaded: %d collections, %d documents (%d indexed, %d reused, %d failed, %d removed) in %v",
		stats.Collections, stats.Documents, stats.Indexed, stats.Reused, stats.Failed, stats.Removed,
		time.Since(start).Round(time.Millisecond))
	return stats, nil
}

// scanCollection walks a collection directory and returns its indexable files.
// Files are visited in lexical order; on a slug clash the first file wins.
func (c *Catalog) scanCollection(key string, colCfg config.CollectionConfig) ([]candidate, error) {
	excludes, err := utils.CompileRegexPatterns(colCfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	selector := config.GetEffectiveContentSelector(colCfg, *c.appCfg)
	colLog := c.log.WithField("collection", key)

	root := colCfg.Dir
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: collection dir %s: %w", utils.ErrFilesystem, root, err)
	}

	var found []candidate
	seen := make(map[string]string) // slug -> rel path that claimed it
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			colLog.Warnf("Cannot access %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		format := models.FormatFromExt(strings.ToLower(filepath.Ext(path)))
		if !format.IsValid() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if utils.MatchesAny(excludes, rel) {
			colLog.Debugf("Excluded %s", rel)
			return nil
		}

		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		slug := utils.SanitizeSlug(stem)
		if prev, dup := seen[slug]; dup {
			colLog.Warnf("Slug '%s' of %s already used by %s, skipping", slug, rel, prev)
			return nil
		}
		seen[slug] = rel

		found = append(found, candidate{
			ref: models.DocumentRef{
				Category: key,
				Slug:     slug,
				Title:    filepath.Base(stem),
				FileName: d.Name(),
				FilePath: path,
				Format:   format,
			},
			selector: selector,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", utils.ErrFilesystem, root, walkErr)
	}
	colLog.Debugf("Found %d documents in %s", len(found), root)
	return found, nil
}

// indexDocument returns the entry for a candidate, reusing the stored one when
// the file content is unchanged.
func (c *Catalog) indexDocument(cand candidate) (*models.DocumentEntry, bool) {
	ref := cand.ref
	docLog := c.log.WithFields(logrus.Fields{"collection": ref.Category, "slug": ref.Slug})

	entry := &models.DocumentEntry{Ref: ref, Headings: toc.SectionIndex{}, IndexedAt: time.Now()}

	hash, err := utils.CalculateFileSHA256(ref.FilePath)
	if err != nil {
		err = fmt.Errorf("%w: hashing %s: %w", utils.ErrFilesystem, ref.FilePath, err)
		entry.ErrorType = utils.CategorizeError(err)
		docLog.Warnf("Cannot index document: %v", err)
		return entry, false
	}
	entry.ContentHash = hash

	if cached := c.cachedEntry(ref, hash, docLog); cached != nil {
		return cached, true
	}

	headings, err := c.extract(ref, cand.selector)
	if err != nil {
		entry.ErrorType = utils.CategorizeError(err)
		docLog.WithField("error_type", entry.ErrorType).Warnf("Heading extraction failed: %v", err)
	} else {
		entry.Headings = headings
		if len(headings) > 0 {
			entry.Ref.Title = headings[0].Text
		}
	}

	if c.store != nil {
		if err := c.store.PutEntry(entry); err != nil {
			docLog.Warnf("Failed to cache index: %v", err)
		}
	}
	return entry, false
}

// cachedEntry returns the stored entry if it was built from identical content at the same path.
func (c *Catalog) cachedEntry(ref models.DocumentRef, hash string, docLog *logrus.Entry) *models.DocumentEntry {
	if c.store == nil {
		return nil
	}
	status, stored, err := c.store.GetEntry(ref.Category, ref.Slug)
	if err != nil {
		docLog.Warnf("Index store lookup failed: %v", err)
		return nil
	}
	if status != models.EntryStatusFound {
		return nil
	}
	if stored.ContentHash != hash || stored.Ref.FilePath != ref.FilePath || stored.ErrorType != "" {
		return nil
	}
	if stored.Headings == nil {
		stored.Headings = toc.SectionIndex{}
	}
	return stored
}

// extract dispatches on document format.
func (c *Catalog) extract(ref models.DocumentRef, selector string) (toc.SectionIndex, error) {
	content, err := os.ReadFile(ref.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", utils.ErrFilesystem, ref.FilePath, err)
	}
	switch ref.Format {
	case models.FormatMarkdown:
		return toc.ExtractMarkdown(content), nil
	case models.FormatHTML:
		return toc.ExtractHTMLFunc(content, c.detect.SelectorFunc(ref.Category, selector))
	default:
		return toc.Extract(string(content)), nil
	}
}

// pruneStore deletes stored entries for documents that no longer exist.
func (c *Catalog) pruneStore(ctx context.Context, live map[string]map[string]*models.DocumentEntry) int {
	if c.store == nil {
		return 0
	}
	stored, err := c.store.ListEntries(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log.Warnf("Cannot list index store for pruning: %v", err)
		}
		return 0
	}
	removed := 0
	for _, e := range stored {
		if _, ok := live[e.Ref.Category][e.Ref.Slug]; ok {
			continue
		}
		if err := c.store.DeleteEntry(e.Ref.Category, e.Ref.Slug); err != nil {
			c.log.Warnf("Failed to prune %s/%s: %v", e.Ref.Category, e.Ref.Slug, err)
			continue
		}
		removed++
	}
	return removed
}

// RunRefresh re-loads the catalog every interval until ctx is done.
// A non-positive interval disables refreshing.
func (c *Catalog) RunRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.log.Infof("Refreshing catalog every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Catalog refresh stopped")
			return
		case <-ticker.C:
			if _, err := c.Load(ctx); err != nil && ctx.Err() == nil {
				c.log.Errorf("Catalog refresh failed: %v", err)
			}
		}
	}
}

// LastLoad returns when the current snapshot was built.
func (c *Catalog) LastLoad() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastLoad
}

// Lookup resolves (category, slug) to its document reference
func (c *Catalog) Lookup(category, slug string) (models.DocumentRef, error) {
	entry, err := c.Entry(category, slug)
	if err != nil {
		return models.DocumentRef{}, err
	}
	return entry.Ref, nil
}

// Entry returns a copy of the indexed entry for (category, slug)
func (c *Catalog) Entry(category, slug string) (models.DocumentEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.appCfg.Collections[category]; !ok {
		return models.DocumentEntry{}, fmt.Errorf("%w: '%s'", utils.ErrCollectionUnknown, category)
	}
	entry, ok := c.docs[category][slug]
	if !ok {
		return models.DocumentEntry{}, fmt.Errorf("%w: %s/%s", utils.ErrDocumentNotFound, category, slug)
	}
	return *entry, nil
}

// Index returns the section index of a document. The slice is shared; callers must not modify it.
func (c *Catalog) Index(category, slug string) (toc.SectionIndex, error) {
	entry, err := c.Entry(category, slug)
	if err != nil {
		return nil, err
	}
	return entry.Headings, nil
}

// Documents returns the refs of a collection, or of every collection when category is empty,
// ordered by category then slug
func (c *Catalog) Documents(category string) ([]models.DocumentRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if category != "" {
		if _, ok := c.appCfg.Collections[category]; !ok {
			return nil, fmt.Errorf("%w: '%s'", utils.ErrCollectionUnknown, category)
		}
	}

	refs := []models.DocumentRef{}
	for cat, docs := range c.docs {
		if category != "" && cat != category {
			continue
		}
		for _, e := range docs {
			refs = append(refs, e.Ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Category != refs[j].Category {
			return refs[i].Category < refs[j].Category
		}
		return refs[i].Slug < refs[j].Slug
	})
	return refs, nil
}

// Entries returns the navigation leaves of a collection in slug order
func (c *Catalog) Entries(category string) ([]models.NavEntry, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", utils.ErrInvalidRequest)
	}
	refs, err := c.Documents(category)
	if err != nil {
		return nil, err
	}
	nav := make([]models.NavEntry, len(refs))
	for i, ref := range refs {
		nav[i] = models.NavEntry{Slug: ref.Category, Value: ref.Slug, Label: ref.Title}
	}
	return nav, nil
}

// Collections summarizes every configured collection in key order
func (c *Catalog) Collections() []CollectionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]CollectionInfo, 0, len(c.appCfg.Collections))
	for key, colCfg := range c.appCfg.Collections {
		label := colCfg.Label
		if label == "" {
			label = key
		}
		infos = append(infos, CollectionInfo{
			Key:       key,
			Label:     label,
			Documents: len(c.docs[key]),
			URLSync:   config.GetEffectiveEnableURLSync(colCfg, *c.appCfg),
			URLParam:  config.GetEffectiveURLParam(colCfg, *c.appCfg),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

// Collection returns the configuration of one collection
func (c *Catalog) Collection(category string) (config.CollectionConfig, error) {
	colCfg, ok := c.appCfg.Collections[category]
	if !ok {
		return config.CollectionConfig{}, fmt.Errorf("%w: '%s'", utils.ErrCollectionUnknown, category)
	}
	return colCfg, nil
}
