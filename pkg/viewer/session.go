// Package viewer binds the navigation engine to one docs-viewer page: the
// section index of the shown document, scroll-spy, anchor navigation and the
// shared active selection.
package viewer

import (
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/navigate"
	"github.com/Sriram-PR/docnav/pkg/scrollspy"
	"github.com/Sriram-PR/docnav/pkg/selection"
	"github.com/Sriram-PR/docnav/pkg/toc"
	"github.com/Sriram-PR/docnav/pkg/utils"
)

// IndexFunc loads the section index of a document in the session's collection.
type IndexFunc func(slug string) (toc.SectionIndex, error)

// SessionOptions configures a new Session.
type SessionOptions struct {
	Category   string
	Entries    []selection.Selection // Valid navigation leaves of the collection
	Index      IndexFunc
	Threshold  float64
	Navigation navigate.Options
	URLSync    bool
	URLParam   string
	PageURL    *url.URL // Cold-load URL; may carry the selection parameter
	Scheduler  navigate.Scheduler
}

// State is a point-in-time view of a session, as served to clients.
type State struct {
	ID            string              `json:"id"`
	Category      string              `json:"category"`
	Selection     selection.Selection `json:"selection"`
	DisplayName   string              `json:"display_name"`
	URL           string              `json:"url,omitempty"`
	URLSync       bool                `json:"url_sync"`
	Headings      toc.SectionIndex    `json:"headings"`
	ActiveHeading string              `json:"active_heading"`
	Navigating    []string            `json:"navigating"`
	ScrollTarget  string              `json:"scroll_target,omitempty"`
	ScrollSeq     int                 `json:"scroll_seq"`
	Mounted       []string            `json:"mounted"`
	LastSeen      time.Time           `json:"last_seen"`
}

// Session is one viewer page of a collection. The active selection picks the
// shown document; its index backs the TOC panel and the scroll-spy.
type Session struct {
	id       string
	category string
	log      *logrus.Entry

	indexOf  IndexFunc
	elements *ElementRegistry
	tracker  *scrollspy.Tracker
	nav      *navigate.Navigator
	store    *selection.Store
	urlSync  *selection.URLSync
	unsub    func()

	selectMu sync.Mutex // serializes Select and ClearSelection so store and page URL change together

	mu       sync.Mutex
	index    toc.SectionIndex
	pageURL  *url.URL
	lastSeen time.Time
}

// NewSession wires a session together and seeds the selection from the page URL.
func NewSession(id string, opts SessionOptions, log *logrus.Entry) *Session {
	s := &Session{
		id:       id,
		category: opts.Category,
		log:      log.WithFields(logrus.Fields{"session": id, "collection": opts.Category}),
		indexOf:  opts.Index,
		elements: NewElementRegistry(),
		tracker:  scrollspy.NewTracker(scrollspy.New(opts.Threshold), toc.SectionIndex{}),
		store:    selection.NewStore(),
		urlSync:  selection.NewURLSync(opts.URLSync, opts.URLParam, opts.Entries),
		index:    toc.SectionIndex{},
		pageURL:  opts.PageURL,
		lastSeen: time.Now(),
	}
	s.nav = navigate.New(s.elements, s.tracker, opts.Scheduler, opts.Navigation, s.log)
	s.unsub = s.store.Subscribe(s.onSelection)

	if s.urlSync.Seed(s.store, opts.PageURL) {
		s.log.Debugf("Selection seeded from URL: %s", s.store.Value())
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Category returns the collection the session browses.
func (s *Session) Category() string { return s.category }

// Store returns the session's active selection store.
func (s *Session) Store() *selection.Store { return s.store }

// Navigator returns the session's anchor navigator.
func (s *Session) Navigator() *navigate.Navigator { return s.nav }

// onSelection swaps in the index of the newly selected document. Navigation
// still running against the previous document is superseded.
func (s *Session) onSelection(sel selection.Selection) {
	s.nav.Cancel()

	idx := toc.SectionIndex{}
	if !sel.IsEmpty() && s.indexOf != nil {
		loaded, err := s.indexOf(sel.Value)
		if err != nil {
			s.log.WithField("error_type", utils.CategorizeError(err)).Warnf("Cannot load index for '%s': %v", sel.Value, err)
		} else {
			idx = loaded
		}
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.elements.Reset()
	s.tracker.Reset(idx)
	s.tracker.SetActive("")
}

// Index returns the index of the shown document.
func (s *Session) Index() toc.SectionIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Scroll reports the mounted heading elements and their offsets. The active
// heading is recomputed unless a navigation is in flight, in which case the
// navigation owns the active heading until it settles.
func (s *Session) Scroll(offsets map[string]float64) string {
	s.touch()
	s.elements.Update(offsets)
	if s.nav.Navigating() {
		return s.tracker.Active()
	}
	return s.tracker.OnScroll(s.elements.Positions())
}

// NavigateTo starts an anchor navigation to a heading of the shown document.
func (s *Session) NavigateTo(headingID string) error {
	s.touch()
	if headingID == "" {
		return fmt.Errorf("%w: heading id is required", utils.ErrInvalidRequest)
	}
	s.nav.NavigateTo(headingID)
	return nil
}

// Select makes the navigation leaf with the given value active and, with URL
// sync enabled, returns the updated page URL.
func (s *Session) Select(value string) (*url.URL, error) {
	s.touch()
	entry, ok := s.urlSync.Lookup(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", utils.ErrDocumentNotFound, s.category, value)
	}

	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	s.mu.Lock()
	pageURL := s.pageURL
	s.mu.Unlock()

	next, err := s.urlSync.Navigate(s.store, entry, pageURL)
	if err != nil {
		return nil, err
	}
	s.setPageURL(next)
	return next, nil
}

// ClearSelection empties the selection and drops the URL parameter.
func (s *Session) ClearSelection() *url.URL {
	s.touch()
	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	s.mu.Lock()
	pageURL := s.pageURL
	s.mu.Unlock()

	next := s.urlSync.Clear(s.store, pageURL)
	s.setPageURL(next)
	return next
}

func (s *Session) setPageURL(u *url.URL) {
	if u == nil {
		return
	}
	s.mu.Lock()
	s.pageURL = u
	s.mu.Unlock()
}

// Panel renders the TOC panel of the shown document.
func (s *Session) Panel() string {
	return toc.FormatPanel(s.Index(), s.tracker.Active())
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	sel := s.store.Current()
	target, seq := s.elements.ScrollCommand()
	navigating := s.nav.NavigatingIDs()
	sort.Strings(navigating)

	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		ID:            s.id,
		Category:      s.category,
		Selection:     sel,
		DisplayName:   selection.DisplayName(sel, s.category),
		URLSync:       s.urlSync.Enabled(),
		Headings:      s.index,
		ActiveHeading: s.tracker.Active(),
		Navigating:    navigating,
		ScrollTarget:  target,
		ScrollSeq:     seq,
		Mounted:       s.elements.Mounted(),
		LastSeen:      s.lastSeen,
	}
	if s.pageURL != nil {
		state.URL = s.pageURL.String()
	}
	return state
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close detaches the session from its store.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}
