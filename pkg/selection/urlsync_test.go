package selection

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Selection {
	return []Selection{
		{Slug: "docnav", Value: "overview", Label: "Overview"},
		{Slug: "docnav", Value: "installation", Label: "Installation"},
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestURLSync_SeedFromQuery(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(true, "", testEntries())

	seeded := sync.Seed(store, mustParse(t, "https://example.com/docs/docnav?tab=installation"))

	assert.True(t, seeded)
	assert.Equal(t, "installation", store.Value())
	assert.Equal(t, "Installation", store.Label())
	assert.Equal(t, "docnav", store.Slug())
}

func TestURLSync_SeedIgnored(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		raw     string
	}{
		{"sync disabled", false, "https://example.com/docs?tab=installation"},
		{"param missing", true, "https://example.com/docs"},
		{"unknown value", true, "https://example.com/docs?tab=nope"},
		{"empty value", true, "https://example.com/docs?tab="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			sync := NewURLSync(tt.enabled, DefaultParam, testEntries())

			assert.False(t, sync.Seed(store, mustParse(t, tt.raw)))
			assert.True(t, store.Current().IsEmpty())
		})
	}
}

func TestURLSync_CustomParam(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(true, "doc", testEntries())

	assert.Equal(t, "doc", sync.Param())
	assert.False(t, sync.Seed(store, mustParse(t, "https://example.com/?tab=overview")))
	assert.True(t, sync.Seed(store, mustParse(t, "https://example.com/?doc=overview")))
	assert.Equal(t, "overview", store.Value())
}

func TestURLSync_NavigateUpdatesStoreThenURL(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(true, "tab", testEntries())
	var storeValueWhenNotified string
	store.Subscribe(func(s Selection) { storeValueWhenNotified = s.Value })

	page := mustParse(t, "https://example.com/docs/docnav?theme=dark")
	next, err := sync.Navigate(store, Selection{Slug: "docnav", Value: "installation", Label: "Installation"}, page)

	require.NoError(t, err)
	assert.Equal(t, "installation", storeValueWhenNotified)
	assert.Equal(t, "installation", next.Query().Get("tab"))
	assert.Equal(t, "dark", next.Query().Get("theme"))
	assert.Equal(t, "theme=dark", page.RawQuery, "input URL must not be mutated")
}

func TestURLSync_NavigateDisabledLeavesURL(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(false, "tab", testEntries())
	page := mustParse(t, "https://example.com/docs")

	next, err := sync.Navigate(store, Selection{Slug: "docnav", Value: "overview", Label: "Overview"}, page)

	require.NoError(t, err)
	assert.Equal(t, page.String(), next.String())
	assert.Equal(t, "overview", store.Value())
}

func TestURLSync_NavigatePartialFails(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(true, "tab", testEntries())
	page := mustParse(t, "https://example.com/docs")

	next, err := sync.Navigate(store, Selection{Value: "overview"}, page)

	require.Error(t, err)
	assert.Equal(t, page, next)
	assert.True(t, store.Current().IsEmpty())
}

func TestURLSync_Clear(t *testing.T) {
	store := NewStore()
	sync := NewURLSync(true, "tab", testEntries())
	require.True(t, sync.Seed(store, mustParse(t, "https://example.com/docs?tab=overview&x=1")))

	next := sync.Clear(store, mustParse(t, "https://example.com/docs?tab=overview&x=1"))

	assert.True(t, store.Current().IsEmpty())
	assert.Equal(t, "x=1", next.RawQuery)
}
