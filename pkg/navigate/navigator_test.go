package navigate

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type fakeViewport struct {
	mu       sync.Mutex
	mounted  map[string]bool
	lookups  map[string]int
	scrolled []string
}

func newFakeViewport(mounted ...string) *fakeViewport {
	v := &fakeViewport{mounted: make(map[string]bool), lookups: make(map[string]int)}
	for _, id := range mounted {
		v.mounted[id] = true
	}
	return v
}

func (v *fakeViewport) Lookup(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lookups[id]++
	return v.mounted[id]
}

func (v *fakeViewport) ScrollTo(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolled = append(v.scrolled, id)
}

func (v *fakeViewport) mount(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted[id] = true
}

func (v *fakeViewport) lookupCount(id string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lookups[id]
}

type activeRecorder struct {
	history []string
}

func (r *activeRecorder) SetActive(id string) { r.history = append(r.history, id) }

func (r *activeRecorder) current() string {
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

func newTestNavigator(v Viewport) (*Navigator, *ManualScheduler, *activeRecorder) {
	sched := NewManualScheduler()
	rec := &activeRecorder{}
	return New(v, rec, sched, DefaultOptions(), testLogger()), sched, rec
}

func TestNavigateTo_MountedTarget(t *testing.T) {
	vp := newFakeViewport("install")
	nav, sched, rec := newTestNavigator(vp)

	nav.NavigateTo("install")

	assert.Equal(t, "install", rec.current())
	assert.Equal(t, []string{"install"}, vp.scrolled)
	assert.True(t, nav.IsNavigating("install"))
	assert.True(t, nav.Navigating())

	sched.Advance(DefaultSettleDelay - time.Millisecond)
	assert.True(t, nav.IsNavigating("install"))

	sched.Advance(time.Millisecond)
	assert.False(t, nav.IsNavigating("install"))
	assert.False(t, nav.Navigating())
	assert.Equal(t, 0, sched.Pending())
}

func TestNavigateTo_MountsOnThirdRetry(t *testing.T) {
	vp := newFakeViewport()
	nav, sched, rec := newTestNavigator(vp)

	nav.NavigateTo("usage")
	assert.True(t, nav.IsNavigating("usage"))

	sched.Advance(250 * time.Millisecond) // retries 1 and 2 miss
	assert.Empty(t, rec.history)
	assert.Equal(t, 3, vp.lookupCount("usage"))

	vp.mount("usage")
	sched.Advance(50 * time.Millisecond) // retry 3 at 300ms hits

	assert.Equal(t, "usage", rec.current())
	assert.Equal(t, []string{"usage"}, vp.scrolled)
	assert.Equal(t, 4, vp.lookupCount("usage"))
	assert.True(t, nav.IsNavigating("usage"))

	sched.Advance(DefaultSettleDelay)
	assert.False(t, nav.IsNavigating("usage"))
	assert.Equal(t, 4, vp.lookupCount("usage"))
}

func TestNavigateTo_NeverMounts(t *testing.T) {
	vp := newFakeViewport()
	nav, sched, rec := newTestNavigator(vp)
	rec.SetActive("intro")

	nav.NavigateTo("ghost")

	sched.Advance(499 * time.Millisecond)
	assert.True(t, nav.IsNavigating("ghost"))
	assert.Equal(t, 5, vp.lookupCount("ghost")) // initial check + 4 retries

	sched.Advance(time.Millisecond)
	assert.False(t, nav.IsNavigating("ghost"))
	assert.Equal(t, 6, vp.lookupCount("ghost")) // initial check + 5 retries

	sched.Advance(time.Second)
	assert.Equal(t, 6, vp.lookupCount("ghost"))
	assert.Equal(t, "intro", rec.current())
	assert.Empty(t, vp.scrolled)
	assert.Equal(t, 0, sched.Pending())
}

func TestNavigateTo_NewerRequestWins(t *testing.T) {
	vp := newFakeViewport("b")
	nav, sched, rec := newTestNavigator(vp)

	nav.NavigateTo("a")
	sched.Advance(150 * time.Millisecond)

	nav.NavigateTo("b")
	assert.Equal(t, "b", rec.current())
	assert.False(t, nav.IsNavigating("a"))
	assert.True(t, nav.IsNavigating("b"))

	// A mounts while its stale retry is still scheduled.
	lookupsBefore := vp.lookupCount("a")
	vp.mount("a")
	sched.Advance(2 * time.Second)

	assert.NotContains(t, rec.history, "a")
	assert.Equal(t, "b", rec.current())
	assert.Equal(t, []string{"b"}, vp.scrolled)
	assert.Equal(t, lookupsBefore, vp.lookupCount("a"))
	assert.False(t, nav.Navigating())
}

func TestNavigateTo_StaleRetryWhileNewerStillRetrying(t *testing.T) {
	vp := newFakeViewport()
	nav, sched, rec := newTestNavigator(vp)

	nav.NavigateTo("a")
	nav.NavigateTo("b")

	vp.mount("a")
	sched.Advance(200 * time.Millisecond)
	assert.Empty(t, rec.history)
	assert.True(t, nav.IsNavigating("b"))

	vp.mount("b")
	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"b"}, rec.history)

	sched.Advance(time.Second)
	assert.Equal(t, []string{"b"}, rec.history)
	assert.False(t, nav.Navigating())
}

func TestNavigateTo_SameTargetTwice(t *testing.T) {
	vp := newFakeViewport("install")
	nav, sched, _ := newTestNavigator(vp)

	nav.NavigateTo("install")
	sched.Advance(300 * time.Millisecond)
	nav.NavigateTo("install")

	// The first settle is stale and must not clear the second request's flag.
	sched.Advance(250 * time.Millisecond)
	assert.True(t, nav.IsNavigating("install"))

	sched.Advance(250 * time.Millisecond)
	assert.False(t, nav.IsNavigating("install"))
}

func TestNavigator_CustomOptions(t *testing.T) {
	vp := newFakeViewport()
	sched := NewManualScheduler()
	nav := New(vp, nil, sched, Options{RetryInterval: 50 * time.Millisecond, MaxRetries: 2, SettleDelay: time.Second}, testLogger())

	assert.Equal(t, 2, nav.Options().MaxRetries)

	nav.NavigateTo("x")
	sched.Advance(100 * time.Millisecond)

	assert.False(t, nav.IsNavigating("x"))
	assert.Equal(t, 3, vp.lookupCount("x"))
	assert.Empty(t, nav.NavigatingIDs())
}

func TestOptions_Defaults(t *testing.T) {
	assert.Equal(t, Options{SettleDelay: 500 * time.Millisecond, RetryInterval: 100 * time.Millisecond, MaxRetries: 5}, DefaultOptions())

	opts := Options{}.withDefaults()
	assert.Equal(t, time.Duration(0), opts.SettleDelay, "zero settle delay is kept")
	assert.Equal(t, 100*time.Millisecond, opts.RetryInterval)
	assert.Equal(t, 5, opts.MaxRetries)

	assert.Equal(t, time.Duration(0), Options{SettleDelay: -time.Second}.withDefaults().SettleDelay)
}

func TestNavigateTo_ZeroSettleDelay(t *testing.T) {
	vp := newFakeViewport("install")
	sched := NewManualScheduler()
	nav := New(vp, nil, sched, Options{}, testLogger())

	nav.NavigateTo("install")
	assert.True(t, nav.IsNavigating("install"))

	sched.Advance(0)
	assert.False(t, nav.Navigating())
	assert.Equal(t, []string{"install"}, vp.scrolled)
}

func TestCancel_DiscardsPendingRetries(t *testing.T) {
	vp := newFakeViewport()
	nav, sched, rec := newTestNavigator(vp)

	nav.NavigateTo("setup")
	sched.Advance(100 * time.Millisecond)
	require.True(t, nav.IsNavigating("setup"))

	nav.Cancel()
	assert.False(t, nav.Navigating())

	vp.mount("setup")
	sched.Advance(time.Second)

	assert.Empty(t, rec.history)
	assert.Empty(t, vp.scrolled)
	assert.Equal(t, 0, sched.Pending())

	// A later navigation works normally
	nav.NavigateTo("setup")
	assert.Equal(t, "setup", rec.current())
}

func TestCancel_WithoutNavigationIsNoop(t *testing.T) {
	nav, _, rec := newTestNavigator(newFakeViewport("a"))
	nav.Cancel()
	assert.False(t, nav.Navigating())
	assert.Empty(t, rec.history)
}
