package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

func TestRenderFilters(t *testing.T) {
	doc, data := newTestFiltersData(t)
	facets := domain.Facets{
		"events_tag":  {"CENSUS": 2},
		"events_year": {domain.UnspecifiedValue: 5},
	}

	displayed := RenderFilters(data.FiltersMap, map[string]string{"tag": "CENSUS"}, facets)

	assert.True(t, displayed)
	assert.False(t, dom.IsHidden(doc.ElementByID("tag-nav")))
	assert.True(t, dom.IsHidden(doc.ElementByID("year-nav")), "unspecified-only filter stays hidden")
	assert.Equal(t, "CENSUS", dom.Value(doc.ElementByID("tag")))

	tag := doc.ElementByID("tag")
	options := dom.Options(tag)
	require.Len(t, options, 2)
	assert.Equal(t, "Select Tag", dom.TextContent(options[0]))
	assert.True(t, dom.HasAttr(options[0], "disabled"))
	assert.Equal(t, "CENSUS (2)", dom.TextContent(options[1]))
}

func TestRenderFilters_RepopulatesWithSinglePlaceholder(t *testing.T) {
	doc, data := newTestFiltersData(t)

	RenderFilters(data.FiltersMap, nil, domain.Facets{"events_tag": {"A": 1, "B": 1}})
	RenderFilters(data.FiltersMap, nil, domain.Facets{"events_tag": {"C": 1}})

	var values []string
	for _, o := range dom.Options(doc.ElementByID("tag")) {
		values = append(values, dom.OptionValue(o))
	}
	assert.Equal(t, []string{"", "C"}, values)
}

func TestRenderFilters_NothingToDisplay(t *testing.T) {
	doc, data := newTestFiltersData(t)

	assert.False(t, RenderFilters(data.FiltersMap, nil, domain.Facets{}))
	assert.True(t, dom.IsHidden(doc.ElementByID("tag-nav")))
	assert.False(t, RenderFilters(FiltersMap{}, nil, newEventsIndex().facets))
}

func TestFilteredPaginationFragment(t *testing.T) {
	doc, _ := newTestFiltersData(t)

	frag := FilteredPaginationFragment(doc, domain.PageNavItems(5, 10))

	require.NotNil(t, frag)
	// prev, 1, ..., 4, 5, 6, ..., 10, next
	require.Equal(t, 9, frag.Len())

	var ids, hrefs, texts []string
	for _, li := range frag.Nodes() {
		assert.False(t, dom.HasAttr(li, "id"), "cloned items carry no template id")
		link := dom.Find(li, "a")
		if link == nil {
			ids = append(ids, "")
			hrefs = append(hrefs, "")
			texts = append(texts, dom.TextContent(li))
			continue
		}
		ids = append(ids, dom.Attr(link, "id"))
		hrefs = append(hrefs, dom.Attr(link, "href"))
		texts = append(texts, dom.TextContent(link))
	}

	assert.Equal(t, []string{
		"pagination-prev-link-filtered-4",
		"pagination-page-link-filtered-1",
		"",
		"pagination-page-link-filtered-4",
		"pagination-page-link-filtered-5",
		"pagination-page-link-filtered-6",
		"",
		"pagination-page-link-filtered-10",
		"pagination-next-link-filtered-6",
	}, ids)
	assert.Equal(t, "/events/?page=4", hrefs[0])
	assert.Equal(t, "/events/?page=10", hrefs[7])
	assert.Equal(t, []string{"Previous", "1", "...", "4", "5", "6", "...", "10", "Next"}, texts)
	assert.Equal(t, "current", dom.Attr(frag.Nodes()[4], "class"))
}

func TestFilteredPaginationFragment_SkipsMissingTemplates(t *testing.T) {
	doc, err := dom.ParseString(`<html><body>
<div id="pagination-page-template"><li><a href="?page="></a></li></div>
<template id="pagination-next-template"><li>no link</li></template>
<template id="pagination-page-current-template"><span>no item</span></template>
</body></html>`)
	require.NoError(t, err)

	assert.Nil(t, FilteredPaginationFragment(doc, domain.PageNavItems(1, 3)))
	assert.Nil(t, FilteredPaginationFragment(doc, nil))
}

func TestGetFirstPageLinkURL(t *testing.T) {
	doc, _ := newTestFiltersData(t)
	assert.Equal(t, "/events/", GetFirstPageLinkURL(doc))

	empty, err := dom.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "", GetFirstPageLinkURL(empty))
}

func TestNavigateToTheFirstPage(t *testing.T) {
	loc := NewLocation(&url.URL{Path: "/events/page/3/"})
	selections := map[string]domain.FilterSelection{
		"tag":  {FilterName: "tag", SelectedValue: "CENSUS"},
		"year": {FilterName: "year", SelectedValue: "2024"},
	}

	assert.True(t, NavigateToTheFirstPage(loc, "/events/?ref=nav", selections))
	assert.Equal(t, "/events/?ref=nav&tag=CENSUS&year=2024", loc.NavigatedTo())

	assert.False(t, NavigateToTheFirstPage(loc, "", selections))
	assert.False(t, NavigateToTheFirstPage(nil, "/events/", selections))
}

func TestDisplayStates(t *testing.T) {
	doc, _ := newTestFiltersData(t)
	pair := CreateFilteredCollectionItemList(doc)
	require.NotNil(t, pair)

	frag := dom.NewFragment()
	frag.Append(dom.NewOption("x", "x"))

	DisplayFiltered(pair, frag)
	assert.True(t, dom.IsHidden(pair.Original))
	assert.False(t, dom.IsHidden(pair.Filtered))
	assert.Equal(t, 1, dom.ChildElementCount(pair.Filtered))

	HideBoth(pair)
	assert.True(t, dom.IsHidden(pair.Original))
	assert.True(t, dom.IsHidden(pair.Filtered))
	assert.Equal(t, 0, dom.ChildElementCount(pair.Filtered))

	DisplayOriginals(pair)
	assert.False(t, dom.IsHidden(pair.Original))
	assert.True(t, dom.IsHidden(pair.Filtered))

	assert.NotPanics(t, func() {
		DisplayOriginals(nil)
		DisplayFiltered(nil, frag)
		HideBoth(nil)

		half := &ElementsPair{Original: &html.Node{Type: html.ElementNode, Data: "ul"}}
		DisplayOriginals(half)
		DisplayFiltered(half, nil)
		HideBoth(half)
	})
}
