// Package navigate scrolls a document viewer to a requested section, retrying
// while the section is not mounted yet.
package navigate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSettleDelay   = 500 * time.Millisecond
	DefaultRetryInterval = 100 * time.Millisecond
	DefaultMaxRetries    = 5
)

// Viewport is the rendering surface the navigator drives.
// Implementations must not call back into the Navigator.
type Viewport interface {
	// Lookup reports whether the element bound to id is currently mounted.
	Lookup(id string) bool
	// ScrollTo smooth-scrolls so the element's top aligns with the viewport top.
	ScrollTo(id string)
}

// ActiveSetter receives the heading that a successful navigation made active.
type ActiveSetter interface {
	SetActive(id string)
}

// Scheduler runs f once after d. Callbacks may run on another goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules callbacks on real timers.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Options tunes navigation timing. A zero RetryInterval or MaxRetries takes the
// package default. SettleDelay is used as given: zero completes a navigation on
// the next scheduler tick.
type Options struct {
	SettleDelay   time.Duration
	RetryInterval time.Duration
	MaxRetries    int
}

// DefaultOptions returns the standard timing.
func DefaultOptions() Options {
	return Options{
		SettleDelay:   DefaultSettleDelay,
		RetryInterval: DefaultRetryInterval,
		MaxRetries:    DefaultMaxRetries,
	}
}

func (o Options) withDefaults() Options {
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	return o
}

// request is one attempt of a navigation. Retries create a new value with the
// same tag and a higher attempt number.
type request struct {
	targetID string
	attempt  int
	tag      string
}

// Navigator implements click-to-section navigation.
//
// Every NavigateTo call gets a fresh tag. Scheduled callbacks carry the tag of the
// call that created them and do nothing once a newer call has replaced it, so a
// superseded request can never make its target active.
type Navigator struct {
	viewport Viewport
	active   ActiveSetter
	sched    Scheduler
	opts     Options
	log      *logrus.Entry

	mu         sync.Mutex
	currentTag string
	currentID  string
	navigating map[string]bool
}

// New creates a Navigator. A nil scheduler uses real timers.
func New(viewport Viewport, active ActiveSetter, sched Scheduler, opts Options, log *logrus.Entry) *Navigator {
	if sched == nil {
		sched = TimerScheduler{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Navigator{
		viewport:   viewport,
		active:     active,
		sched:      sched,
		opts:       opts.withDefaults(),
		log:        log.WithField("component", "navigator"),
		navigating: make(map[string]bool),
	}
}

// Options returns the effective timing options.
func (n *Navigator) Options() Options {
	return n.opts
}

// NavigateTo scrolls to targetID, retrying every RetryInterval up to MaxRetries
// times while the target is not mounted. It never fails loudly: an exhausted
// retry budget only clears the navigating flag.
func (n *Navigator) NavigateTo(targetID string) {
	n.mu.Lock()
	if n.currentID != "" && n.currentID != targetID {
		delete(n.navigating, n.currentID)
	}
	tag := uuid.NewString()
	n.currentTag = tag
	n.currentID = targetID
	n.navigating[targetID] = true
	n.mu.Unlock()

	n.log.WithFields(logrus.Fields{"target": targetID, "tag": tag}).Debug("Navigation requested")
	n.try(request{targetID: targetID, attempt: 0, tag: tag})
}

// try performs one lookup for req. attempt 0 is the initial check; 1..MaxRetries are retries.
func (n *Navigator) try(req request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry := n.log.WithFields(logrus.Fields{"target": req.targetID, "tag": req.tag, "attempt": req.attempt})
	if req.tag != n.currentTag {
		entry.Debug("Discarding superseded navigation attempt")
		return
	}

	if n.viewport.Lookup(req.targetID) {
		if n.active != nil {
			n.active.SetActive(req.targetID)
		}
		n.viewport.ScrollTo(req.targetID)
		entry.Debug("Target mounted, scrolling")
		n.sched.AfterFunc(n.opts.SettleDelay, func() { n.settle(req) })
		return
	}

	if req.attempt >= n.opts.MaxRetries {
		entry.Debug("Target never mounted, giving up")
		n.finishLocked(req)
		return
	}

	next := request{targetID: req.targetID, attempt: req.attempt + 1, tag: req.tag}
	n.sched.AfterFunc(n.opts.RetryInterval, func() { n.try(next) })
}

// settle marks a successful navigation complete once the scroll animation is over.
func (n *Navigator) settle(req request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if req.tag != n.currentTag {
		return
	}
	n.finishLocked(req)
}

func (n *Navigator) finishLocked(req request) {
	delete(n.navigating, req.targetID)
	n.currentID = ""
}

// Cancel supersedes the outstanding navigation, if any: its pending callbacks
// become no-ops and every navigating flag is cleared. The active heading is not touched.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.currentTag == "" {
		return
	}
	n.log.WithFields(logrus.Fields{"target": n.currentID, "tag": n.currentTag}).Debug("Navigation canceled")
	n.currentTag = ""
	n.currentID = ""
	clear(n.navigating)
}

// IsNavigating reports whether a navigation to id is outstanding.
func (n *Navigator) IsNavigating(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.navigating[id]
}

// Navigating reports whether any navigation is outstanding.
func (n *Navigator) Navigating() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.navigating) > 0
}

// NavigatingIDs returns the ids with an outstanding navigation.
func (n *Navigator) NavigatingIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.navigating))
	for id := range n.navigating {
		ids = append(ids, id)
	}
	return ids
}
