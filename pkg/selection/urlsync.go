package selection

import (
	"net/url"
)

// DefaultParam is the query parameter that mirrors the selected value.
const DefaultParam = "tab"

// URLSync keeps one query parameter in step with a Store. It is enabled per host page.
type URLSync struct {
	enabled bool
	param   string
	entries []Selection
}

// NewURLSync creates a synchronizer over the valid navigation entries of a page.
// An empty param uses DefaultParam.
func NewURLSync(enabled bool, param string, entries []Selection) *URLSync {
	if param == "" {
		param = DefaultParam
	}
	return &URLSync{enabled: enabled, param: param, entries: entries}
}

// Enabled reports whether the page syncs selection with its URL.
func (u *URLSync) Enabled() bool { return u.enabled }

// Param returns the query parameter name.
func (u *URLSync) Param() string { return u.param }

// Lookup returns the navigation entry whose value matches.
func (u *URLSync) Lookup(value string) (Selection, bool) {
	if value == "" {
		return Selection{}, false
	}
	for _, e := range u.entries {
		if e.Value == value {
			return e, true
		}
	}
	return Selection{}, false
}

// Seed runs on a cold page load. If sync is enabled and the URL carries a value
// matching a known entry, the store is seeded with that entry. Otherwise the
// store is left as it is (empty on a fresh session).
func (u *URLSync) Seed(store *Store, pageURL *url.URL) bool {
	if !u.enabled || pageURL == nil {
		return false
	}
	entry, ok := u.Lookup(pageURL.Query().Get(u.param))
	if !ok {
		return false
	}
	return store.SetActive(entry) == nil
}

// Navigate handles a user navigation action: the store is updated first, then
// the returned URL carries the selected value in the query parameter. With sync
// disabled the URL is returned unchanged.
func (u *URLSync) Navigate(store *Store, sel Selection, pageURL *url.URL) (*url.URL, error) {
	if err := store.SetActive(sel); err != nil {
		return pageURL, err
	}
	if !u.enabled || pageURL == nil {
		return pageURL, nil
	}
	return withParam(pageURL, u.param, sel.Value), nil
}

// Clear empties the store and drops the query parameter.
func (u *URLSync) Clear(store *Store, pageURL *url.URL) *url.URL {
	store.ClearActive()
	if !u.enabled || pageURL == nil {
		return pageURL
	}
	return withParam(pageURL, u.param, "")
}

func withParam(pageURL *url.URL, param, value string) *url.URL {
	next := *pageURL
	q := next.Query()
	if value == "" {
		q.Del(param)
	} else {
		q.Set(param, value)
	}
	next.RawQuery = q.Encode()
	return &next
}
