// Package selection holds the active navigation leaf shared by the sidebar,
// toolbar and tab bar of the docs viewer.
package selection

import (
	"fmt"
	"sync"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

// Selection identifies the active navigation leaf. Either all fields are empty or all are set.
type Selection struct {
	Slug  string `json:"slug"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Slug == "" && s.Value == "" && s.Label == ""
}

// Validate rejects partially populated selections.
func (s Selection) Validate() error {
	if s.IsEmpty() || (s.Slug != "" && s.Value != "" && s.Label != "") {
		return nil
	}
	return fmt.Errorf("%w: got slug=%q value=%q label=%q", utils.ErrPartialSelection, s.Slug, s.Value, s.Label)
}

// Store is the single writer of the active selection. Consumers read through
// the selectors or Subscribe; none of them should keep their own copy for
// rendering decisions.
type Store struct {
	notifyMu sync.Mutex // held across a change and its notifications, so subscribers see changes in write order

	mu      sync.RWMutex
	current Selection
	subs    map[int]func(Selection)
	nextSub int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Selection))}
}

// SetActive replaces all three fields at once.
func (s *Store) SetActive(sel Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	s.replace(sel)
	return nil
}

// ClearActive resets the selection to empty.
func (s *Store) ClearActive() {
	s.replace(Selection{})
}

func (s *Store) replace(sel Selection) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = sel
	subs := make([]func(Selection), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sel)
	}
}

// Current returns the whole selection.
func (s *Store) Current() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Slug returns the slug of the page that owns the active leaf.
func (s *Store) Slug() string { return s.Current().Slug }

// Value returns the active leaf's value, the one mirrored into the URL.
func (s *Store) Value() string { return s.Current().Value }

// Label returns the active leaf's display label.
func (s *Store) Label() string { return s.Current().Label }

// IsActive reports whether the navigation entry with the given value is the active one.
func (s *Store) IsActive(value string) bool {
	return value != "" && s.Value() == value
}

// Subscribe registers fn to be called after every change. The returned func unsubscribes.
// Calls happen in write order on the writer's goroutine; fn must not write to the store.
func (s *Store) Subscribe(fn func(Selection)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// DisplayName is what the toolbar shows for the current document.
func DisplayName(sel Selection, fallback string) string {
	if sel.Label != "" {
		return sel.Label
	}
	return fallback
}
