package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

const eventsPage = `<!DOCTYPE html>
<html><body>
<div id="collection-filters" data-base-url="/events/" data-page-size="2" data-current-page="%d" data-collection-name="events"></div>
<div id="filters" hidden>
  <nav id="tag-nav" hidden><select id="tag"></select></nav>
  <nav id="year-nav" hidden><select id="year"></select></nav>
</div>
<ul id="collection-list"><li>static</li></ul>
<ul id="pagination-list"><li><a id="pagination-page-link-1" href="/events/">1</a></li></ul>
<template id="pagination-prev-template"><li><a href="/events/?page=">Previous</a></li></template>
<template id="pagination-next-template"><li><a href="/events/?page=">Next</a></li></template>
<template id="pagination-page-template"><li><a href="/events/?page="></a></li></template>
<template id="pagination-page-current-template"><li class="current"><a href="/events/?page="></a></li></template>
<template id="pagination-overflow-template"><li>...</li></template>
</body></html>`

var errUnavailable = errors.New("unavailable")

type fakeHit struct {
	data domain.ResultData
	err  error
}

func (h fakeHit) Data(context.Context) (*domain.ResultData, error) {
	if h.err != nil {
		return nil, h.err
	}
	d := h.data
	return &d, nil
}

type fakeIndex struct {
	entries   []domain.ResultData
	hitErr    error
	searchErr error
}

func (f *fakeIndex) Search(_ context.Context, _ *string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	resp := &domain.SearchResponse{}
	for _, e := range f.entries {
		ok := true
		for key, value := range opts.Filters {
			ok = ok && slices.Contains(e.Filters[key], value)
		}
		if ok {
			resp.Results = append(resp.Results, fakeHit{data: e, err: f.hitErr})
		}
	}

	return resp, nil
}

func (f *fakeIndex) Filters(context.Context) (domain.Facets, error) {
	facets := domain.Facets{}
	for _, e := range f.entries {
		for key, values := range e.Filters {
			if facets[key] == nil {
				facets[key] = map[string]int{}
			}
			for _, v := range values {
				facets[key][v]++
			}
		}
	}

	return facets, nil
}

func newEventsIndex() *fakeIndex {
	return &fakeIndex{entries: []domain.ResultData{
		event("a", "2023-05-01T00:00:00Z", "GEOGRAPHY", "2023"),
		event("b", "2025-02-01T00:00:00Z", "GEOGRAPHY", "2025"),
		event("c", "2024-09-01T00:00:00Z", "GEOGRAPHY", "2024"),
		event("d", "2025-07-01T00:00:00Z", "CENSUS", "2025"),
	}}
}

func event(slug, sortField, tag, year string) domain.ResultData {
	return domain.ResultData{
		URL: "/events/" + slug + "/",
		Meta: domain.ResultMeta{
			Title:            "Event " + slug,
			SortField:        sortField,
			CollectionItemID: domain.CollectionItemTemplateID(slug),
		},
		Filters: map[string][]string{
			"events_tag":  {tag},
			"events_year": {year},
		},
	}
}

// fakeSite serves the events page for every path.
type fakeSite struct {
	staticPage int

	mu        sync.Mutex
	fetched   []string
	cloneCtxs []context.Context
}

func (f *fakeSite) FetchDocument(_ context.Context, pageURL string) (*dom.Document, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, pageURL)
	f.mu.Unlock()

	return dom.ParseString(fmt.Sprintf(eventsPage, max(f.staticPage, 1)))
}

func (f *fakeSite) CloneTemplate(ctx context.Context, pageURL, templateID string) (*dom.Fragment, error) {
	f.mu.Lock()
	f.cloneCtxs = append(f.cloneCtxs, ctx)
	f.mu.Unlock()

	li := dom.NewElement(atom.Li,
		html.Attribute{Key: "class", Val: "card"},
		html.Attribute{Key: "data-url", Val: pageURL},
	)
	dom.SetTextContent(li, templateID)

	frag := dom.NewFragment()
	frag.Append(li)

	return frag, nil
}

type fakeRepo struct {
	mu       sync.Mutex
	entries  map[string][]*domain.IndexEntry // source -> entries
	stale    map[string][]string             // source -> keep
	upsertOK bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries:  map[string][]*domain.IndexEntry{},
		stale:    map[string][]string{},
		upsertOK: true,
	}
}

func (f *fakeRepo) BulkUpsert(_ context.Context, entries []*domain.IndexEntry) error {
	if !f.upsertOK {
		return errUnavailable
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range entries {
		f.entries[e.SourceID] = append(f.entries[e.SourceID], e)
	}
	return nil
}

func (f *fakeRepo) DeleteStale(_ context.Context, sourceID string, keep []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stale[sourceID] = keep
	return 1, nil
}

func (f *fakeRepo) GetByID(context.Context, string) (*domain.IndexEntry, error) {
	return nil, nil
}

func (f *fakeRepo) Count(_ context.Context, collection string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, entries := range f.entries {
		for _, e := range entries {
			if collection == "" || e.Collection == collection {
				n++
			}
		}
	}
	return n, nil
}

type fakeSource struct {
	name    string
	entries []*domain.IndexEntry
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(context.Context) ([]*domain.IndexEntry, error) {
	return f.entries, f.err
}

func (f *fakeSource) HealthCheck(context.Context) error { return f.err }
