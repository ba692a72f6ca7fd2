package viewer

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/config"
	"github.com/Sriram-PR/docnav/pkg/models"
	"github.com/Sriram-PR/docnav/pkg/navigate"
	"github.com/Sriram-PR/docnav/pkg/selection"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/utils"
)

// DocumentSource is the part of the catalog sessions need.
type DocumentSource interface {
	Collection(category string) (config.CollectionConfig, error)
	Entries(category string) ([]models.NavEntry, error)
	Index(category, slug string) (toc.SectionIndex, error)
}

// CreateRequest describes a new viewer page.
type CreateRequest struct {
	Category string `json:"category"`
	Slug     string `json:"slug,omitempty"`     // Document to show; overrides the URL parameter
	PageURL  string `json:"page_url,omitempty"` // Address bar on cold load
}

// Manager owns the live viewer sessions and expires idle ones.
type Manager struct {
	source DocumentSource
	appCfg *config.AppConfig
	sched  navigate.Scheduler
	ttl    time.Duration
	log    *logrus.Entry

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. A nil scheduler uses real timers.
func NewManager(source DocumentSource, appCfg *config.AppConfig, sched navigate.Scheduler, log *logrus.Entry) *Manager {
	return &Manager{
		source:   source,
		appCfg:   appCfg,
		sched:    sched,
		ttl:      appCfg.Server.SessionTTL,
		log:      log.WithField("component", "viewer"),
		sessions: make(map[string]*Session),
	}
}

// Create opens a session on a collection page.
func (m *Manager) Create(req CreateRequest) (*Session, error) {
	colCfg, err := m.source.Collection(req.Category)
	if err != nil {
		return nil, err
	}

	var pageURL *url.URL
	if req.PageURL != "" {
		pageURL, err = url.Parse(req.PageURL)
		if err != nil {
			return nil, fmt.Errorf("%w: page_url: %w", utils.ErrInvalidRequest, err)
		}
	}

	nav, err := m.source.Entries(req.Category)
	if err != nil {
		return nil, err
	}
	entries := make([]selection.Selection, len(nav))
	for i, e := range nav {
		entries[i] = selection.Selection{Slug: e.Slug, Value: e.Value, Label: e.Label}
	}

	category := req.Category
	navCfg := m.appCfg.Navigation
	sess := NewSession(uuid.New().String(), SessionOptions{
		Category: category,
		Entries:  entries,
		Index: func(slug string) (toc.SectionIndex, error) {
			return m.source.Index(category, slug)
		},
		Threshold: config.GetEffectiveActivationThreshold(*m.appCfg),
		Navigation: navigate.Options{
			SettleDelay:   config.GetEffectiveSettleDelay(*m.appCfg),
			RetryInterval: navCfg.RetryInterval,
			MaxRetries:    navCfg.MaxRetries,
		},
		URLSync:   config.GetEffectiveEnableURLSync(colCfg, *m.appCfg),
		URLParam:  config.GetEffectiveURLParam(colCfg, *m.appCfg),
		PageURL:   pageURL,
		Scheduler: m.sched,
	}, m.log)

	if req.Slug != "" {
		if _, err := sess.Select(req.Slug); err != nil {
			sess.Close()
			return nil, err
		}
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"session": sess.ID(), "collection": category}).Debug("Viewer session created")
	return sess, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrSessionNotFound, id)
	}
	return sess, nil
}

// Delete closes and removes a session. Returns false if it did not exist.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the live session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep drops sessions idle for longer than the TTL as of now and returns how many were dropped.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	var expired []*Session
	m.mu.Lock()
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen()) > m.ttl {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	if len(expired) > 0 {
		m.log.Debugf("Expired %d idle viewer sessions", len(expired))
	}
	return len(expired)
}

// RunSweeper sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// CloseAll drops every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}
