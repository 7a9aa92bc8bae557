package filter

import (
	"net/url"
	"sync"
)

// History synchronizes the addressable URL of a page without navigating.
type History interface {
	URL() *url.URL
	ReplaceState(u *url.URL)
}

// Navigator performs a full navigation.
type Navigator interface {
	Navigate(href string)
}

// Location is an in-memory History and Navigator for one page request.
type Location struct {
	mu          sync.Mutex
	current     *url.URL
	navigatedTo string
}

// NewLocation creates a Location at u.
func NewLocation(u *url.URL) *Location {
	return &Location{current: cloneURL(u)}
}

// URL returns a copy of the current URL.
func (l *Location) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()

	return cloneURL(l.current)
}

// ReplaceState swaps the current URL in place.
func (l *Location) ReplaceState(u *url.URL) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = cloneURL(u)
}

// Navigate records a full navigation request.
func (l *Location) Navigate(href string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.navigatedTo = href
}

// NavigatedTo returns the target of the last navigation, or "".
func (l *Location) NavigatedTo() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.navigatedTo
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}

	return &c
}
