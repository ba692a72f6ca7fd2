// Package scrollspy decides which section of a document is currently being read.
package scrollspy

import (
	"sync"

	"github.com/Sriram-PR/docnav/pkg/toc"
)

// DefaultThreshold is the viewport offset a heading must scroll above to become active.
const DefaultThreshold = 200.0

// PositionFunc returns the viewport-top offset of the element bound to id,
// or false when the element is not mounted.
type PositionFunc func(id string) (float64, bool)

// Spy holds the activation threshold. A zero threshold activates a heading only
// once it reaches the viewport top.
type Spy struct {
	Threshold float64
}

// New returns a Spy with the given threshold.
func New(threshold float64) Spy {
	return Spy{Threshold: threshold}
}

// Default returns a Spy with DefaultThreshold.
func Default() Spy {
	return Spy{Threshold: DefaultThreshold}
}

// ComputeActive scans index from the last entry to the first and returns the id of
// the first mounted entry whose offset is at or above the threshold line.
// When no entry qualifies the previous active id is returned unchanged, so the
// result never flickers to "" at the top of the page or while headings are unmounted.
func (s Spy) ComputeActive(index toc.SectionIndex, positionOf PositionFunc, previous string) string {
	if positionOf == nil {
		return previous
	}
	for i := len(index) - 1; i >= 0; i-- {
		offset, mounted := positionOf(index[i].ID)
		if !mounted {
			continue
		}
		if offset <= s.Threshold {
			return index[i].ID
		}
	}
	return previous
}

// ComputeActive runs the heuristic with DefaultThreshold.
func ComputeActive(index toc.SectionIndex, positionOf PositionFunc, previous string) string {
	return Default().ComputeActive(index, positionOf, previous)
}

// Positions adapts a snapshot map of id -> offset to a PositionFunc.
func Positions(snapshot map[string]float64) PositionFunc {
	return func(id string) (float64, bool) {
		offset, ok := snapshot[id]
		return offset, ok
	}
}

// Tracker translates scroll events into ComputeActive calls and remembers the
// last result so it can be fed back as the previous active id.
type Tracker struct {
	spy    Spy
	mu     sync.Mutex
	index  toc.SectionIndex
	active string
}

// NewTracker creates a tracker over index.
func NewTracker(spy Spy, index toc.SectionIndex) *Tracker {
	return &Tracker{spy: spy, index: index}
}

// OnScroll recomputes the active id from the current element positions and returns it.
func (t *Tracker) OnScroll(positionOf PositionFunc) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = t.spy.ComputeActive(t.index, positionOf, t.active)
	return t.active
}

// Active returns the last computed active id.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// SetActive overrides the active id, e.g. after a programmatic navigation.
func (t *Tracker) SetActive(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = id
}

// Reset swaps in a rebuilt index. The active id is kept only if it still exists.
func (t *Tracker) Reset(index toc.SectionIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index = index
	if !index.Contains(t.active) {
		t.active = ""
	}
}
