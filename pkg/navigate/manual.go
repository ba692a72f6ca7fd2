package navigate

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by an explicit clock. Callbacks run on
// the goroutine that calls Advance, in due-time order, which makes retry and
// settle timing reproducible in tests and replays.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []scheduled
}

type scheduled struct {
	at  time.Duration
	seq int
	f   func()
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending = append(s.pending, scheduled{at: s.now + d, seq: s.seq, f: f})
}

// Advance moves the clock forward by d, running every callback that falls due,
// including ones scheduled by callbacks during the advance.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(s.pending, func(i, j int) bool {
			if s.pending[i].at != s.pending[j].at {
				return s.pending[i].at < s.pending[j].at
			}
			return s.pending[i].seq < s.pending[j].seq
		})
		next := s.pending[0]
		if next.at > target {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.pending = s.pending[1:]
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of callbacks not yet run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
