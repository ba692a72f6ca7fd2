package viewer

import (
	"sort"
	"sync"

	"github.com/Sriram-PR/docnav/pkg/scrollspy"
)

// ElementRegistry mirrors the client's mounted heading elements and their
// offsets from the viewport top. It is the Viewport a session's navigator drives:
// ScrollTo records a scroll command for the client to carry out.
type ElementRegistry struct {
	mu           sync.Mutex
	offsets      map[string]float64
	scrollTarget string
	scrollSeq    int // bumped on every ScrollTo so clients can tell repeated commands apart
}

// NewElementRegistry returns an empty registry (nothing mounted).
func NewElementRegistry() *ElementRegistry {
	return &ElementRegistry{offsets: make(map[string]float64)}
}

// Update replaces the mounted set with a fresh snapshot.
func (r *ElementRegistry) Update(offsets map[string]float64) {
	snapshot := make(map[string]float64, len(offsets))
	for id, off := range offsets {
		snapshot[id] = off
	}
	r.mu.Lock()
	r.offsets = snapshot
	r.mu.Unlock()
}

// Reset unmounts everything and forgets the pending scroll command.
func (r *ElementRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offsets = make(map[string]float64)
	r.scrollTarget = ""
}

// Lookup implements navigate.Viewport.
func (r *ElementRegistry) Lookup(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.offsets[id]
	return ok
}

// ScrollTo implements navigate.Viewport.
func (r *ElementRegistry) ScrollTo(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrollTarget = id
	r.scrollSeq++
}

// ScrollCommand returns the last requested scroll target and its sequence number.
func (r *ElementRegistry) ScrollCommand() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scrollTarget, r.scrollSeq
}

// Mounted returns the ids currently mounted, sorted.
func (r *ElementRegistry) Mounted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.offsets))
	for id := range r.offsets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Positions returns a position function over a copy of the current snapshot.
func (r *ElementRegistry) Positions() scrollspy.PositionFunc {
	r.mu.Lock()
	snapshot := make(map[string]float64, len(r.offsets))
	for id, off := range r.offsets {
		snapshot[id] = off
	}
	r.mu.Unlock()
	return scrollspy.Positions(snapshot)
}
