package filter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

const eventsPage = `<!DOCTYPE html>
<html><body>
<div id="collection-filters" data-base-url="/events/" data-page-size="2" data-current-page="%d"
     data-collection-name="events" data-filter-tag="events_tag" data-filter-year="events_year"></div>
<div id="filters" hidden>
  <nav id="tag-nav" hidden><select id="tag"></select></nav>
  <nav id="year-nav" hidden><select id="year"></select></nav>
</div>
<ul id="collection-list"><li>static one</li><li>static two</li></ul>
<ul id="pagination-list"><li><a id="pagination-page-link-1" href="/events/">1</a></li><li><a id="pagination-page-link-2" href="/events/page/2/">2</a></li></ul>
<template id="pagination-prev-template"><li><a href="/events/?page=">Previous</a></li></template>
<template id="pagination-next-template"><li><a href="/events/?page=">Next</a></li></template>
<template id="pagination-page-template"><li><a href="/events/?page="></a></li></template>
<template id="pagination-page-current-template"><li class="current"><a href="/events/?page=" aria-current="page"></a></li></template>
<template id="pagination-overflow-template"><li id="pagination-overflow-item">...</li></template>
</body></html>`

var errFetch = errors.New("fetch failed")

type fakeHit struct {
	data domain.ResultData
}

func (h fakeHit) Data(context.Context) (*domain.ResultData, error) {
	d := h.data
	return &d, nil
}

// fakeIndex matches entries whose filters contain every requested pair.
type fakeIndex struct {
	mu        sync.Mutex
	facets    domain.Facets
	entries   []domain.ResultData
	searchErr error
	calls     []domain.SearchOptions

	// entered and release, when set, block the first Search call.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeIndex) Search(_ context.Context, query *string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	if query != nil {
		return nil, domain.ErrFreeTextUnsupported
	}

	f.mu.Lock()
	f.calls = append(f.calls, opts)
	block := f.entered != nil && len(f.calls) == 1
	f.mu.Unlock()

	if block {
		close(f.entered)
		<-f.release
	}

	if f.searchErr != nil {
		return nil, f.searchErr
	}

	resp := &domain.SearchResponse{}
	for _, e := range f.entries {
		if matches(e, opts) {
			resp.Results = append(resp.Results, fakeHit{data: e})
		}
	}

	return resp, nil
}

func matches(e domain.ResultData, opts domain.SearchOptions) bool {
	for key, value := range opts.Filters {
		if !slices.Contains(e.Filters[key], value) {
			return false
		}
	}
	return true
}

func (f *fakeIndex) Filters(context.Context) (domain.Facets, error) {
	return f.facets, nil
}

func (f *fakeIndex) searchCalls() []domain.SearchOptions {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

// fakeTemplates returns one <li class="card"> per page; pages in fail error.
type fakeTemplates struct {
	fail map[string]bool
}

func (f *fakeTemplates) CloneTemplate(_ context.Context, pageURL, templateID string) (*dom.Fragment, error) {
	if f.fail[pageURL] {
		return nil, errFetch
	}

	li := dom.NewElement(atom.Li,
		html.Attribute{Key: "class", Val: "card"},
		html.Attribute{Key: "data-url", Val: pageURL},
	)
	dom.SetTextContent(li, templateID)

	frag := dom.NewFragment()
	frag.Append(li)

	return frag, nil
}

func newEventsIndex() *fakeIndex {
	return &fakeIndex{
		facets: domain.Facets{
			"events_tag":  {"GEOGRAPHY": 3, "CENSUS": 1},
			"events_year": {"2023": 1, "2024": 1, "2025": 2},
		},
		entries: []domain.ResultData{
			event("/events/a/", "2023-05-01T00:00:00Z", "GEOGRAPHY", "2023"),
			event("/events/b/", "2025-02-01T00:00:00Z", "GEOGRAPHY", "2025"),
			event("/events/c/", "2024-09-01T00:00:00Z", "GEOGRAPHY", "2024"),
			event("/events/d/", "2025-07-01T00:00:00Z", "CENSUS", "2025"),
		},
	}
}

func event(u, sortField, tag, year string) domain.ResultData {
	return domain.ResultData{
		URL: u,
		Meta: domain.ResultMeta{
			Title:            u,
			SortField:        sortField,
			CollectionItemID: domain.CollectionItemTemplateID(u[len("/events/") : len(u)-1]),
		},
		Filters: map[string][]string{
			"events_tag":  {tag},
			"events_year": {year},
		},
	}
}

func sprintfPage(staticPage int) string {
	return fmt.Sprintf(eventsPage, staticPage)
}

type testPage struct {
	doc      *dom.Document
	page     *Page
	index    *fakeIndex
	location *Location
}

func newTestPage(t *testing.T, staticPage int, rawURL string, index *fakeIndex, templates TemplateProvider) *testPage {
	t.Helper()

	doc, err := dom.ParseString(sprintfPage(staticPage))
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	loc := NewLocation(u)

	if templates == nil {
		templates = &fakeTemplates{}
	}

	page := NewPage(doc, PageConfig{
		Index:     index,
		Templates: templates,
		History:   loc,
		Navigator: loc,
	})
	require.NotNil(t, page)

	return &testPage{doc: doc, page: page, index: index, location: loc}
}

func (tp *testPage) byID(id string) *html.Node {
	return tp.doc.ElementByID(id)
}

func (tp *testPage) cardURLs() []string {
	var urls []string
	for _, n := range dom.FindAll(tp.byID("collection-list-filtered"), "li.card") {
		urls = append(urls, dom.Attr(n, "data-url"))
	}
	return urls
}
