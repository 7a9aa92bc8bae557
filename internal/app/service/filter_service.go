// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/filter"
)

// PageFetcher loads pages of the static site.
// Implementations: internal/infra/site/client.go
type PageFetcher interface {
	filter.TemplateProvider

	// FetchDocument fetches and parses the page at pageURL.
	FetchDocument(ctx context.Context, pageURL string) (*dom.Document, error)
}

// FilterService renders filtered collection pages and answers filter
// queries for a collection.
type FilterService struct {
	index       domain.FacetIndex
	site        PageFetcher
	concurrency int
	logger      *zap.Logger
}

// NewFilterService creates a new FilterService. concurrency bounds the item
// pages fetched per rendered page.
func NewFilterService(index domain.FacetIndex, site PageFetcher, concurrency int, logger *zap.Logger) *FilterService {
	return &FilterService{
		index:       index,
		site:        site,
		concurrency: concurrency,
		logger:      logger,
	}
}

// CollectionPageRequest describes one server-side render.
type CollectionPageRequest struct {
	// SitePath is the path of the page on the static site, e.g. "/events/".
	SitePath string

	// URL is the address the page is served at; filtered pagination links
	// and the synchronized URL are derived from it.
	URL *url.URL

	// Change is applied after loading, as if the user changed a control.
	Change *filter.FilterChange
}

// RenderedPage is the outcome of RenderCollectionPage.
type RenderedPage struct {
	HTML string

	// URL is the synchronized address of the page.
	URL string

	// RedirectURL is set when the page asked for a full navigation.
	RedirectURL string

	Filterable bool
	State      filter.ResultState
}

// RenderCollectionPage fetches a static collection page and applies the
// filters carried by the request URL. Pages without filter configuration
// are returned unchanged.
func (s *FilterService) RenderCollectionPage(ctx context.Context, req CollectionPageRequest) (*RenderedPage, error) {
	doc, err := s.site.FetchDocument(ctx, req.SitePath)
	if err != nil {
		return nil, err
	}

	loc := filter.NewLocation(req.URL)
	page := filter.NewPage(doc, filter.PageConfig{
		Index:       s.index,
		Templates:   s.site,
		History:     loc,
		Navigator:   loc,
		Logger:      s.logger,
		Concurrency: s.concurrency,
	})

	out := &RenderedPage{State: filter.StateUnfiltered}
	if page != nil {
		defer page.Close()
		out.Filterable = true

		if err := page.Load(ctx); err != nil {
			return nil, fmt.Errorf("loading collection page %s: %w", req.SitePath, err)
		}
		if req.Change != nil {
			if err := page.ChangeFilter(ctx, *req.Change); err != nil {
				return nil, fmt.Errorf("changing filter %s: %w", req.Change.Name, err)
			}
		}

		out.State = page.ResultState()
		if target := loc.NavigatedTo(); target != "" {
			out.RedirectURL = target
			return out, nil
		}
	}

	body, err := doc.Render()
	if err != nil {
		return nil, fmt.Errorf("rendering page %s: %w", req.SitePath, err)
	}

	out.HTML = body
	out.URL = loc.URL().String()

	return out, nil
}

// FilterOptions is the option list of one filter of a collection.
type FilterOptions struct {
	Name    string                `json:"name"`
	Label   string                `json:"label"`
	Options []domain.FilterOption `json:"options"`
}

// Options returns the options of every recognized filter of a collection.
func (s *FilterService) Options(ctx context.Context, collection string) ([]FilterOptions, error) {
	facets, err := s.index.Filters(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading facets: %w", err)
	}

	out := make([]FilterOptions, 0, len(domain.Filters))
	for _, f := range domain.Filters {
		out = append(out, FilterOptions{
			Name:    f.Name,
			Label:   f.Label,
			Options: domain.CollectionFilters(facets, domain.FacetKey(collection, f.Name)),
		})
	}

	return out, nil
}

// ResultsQuery selects one page of filtered results.
type ResultsQuery struct {
	Collection string
	Selections map[string]string // filter name -> value
	Page       int
	PageSize   int
}

// ResultsPage is one page of filtered results.
type ResultsPage struct {
	State      filter.ResultState
	Total      int
	Nav        domain.FilteredPageNav
	Results    []*domain.ResultData
	Pagination []domain.PageNavItem
}

// Results runs a facet query and pages its results the way a filtered
// collection page does.
func (s *FilterService) Results(ctx context.Context, q ResultsQuery) (*ResultsPage, error) {
	opts := domain.SearchOptions{Filters: make(map[string]string)}
	for name, value := range q.Selections {
		if !domain.IsFilterName(name) || value == "" {
			continue
		}
		opts.Filters[domain.FacetKey(q.Collection, name)] = value
	}

	if opts.IsEmpty() {
		return &ResultsPage{State: filter.StateUnfiltered}, nil
	}

	resp, err := s.index.Search(ctx, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results, err := filter.ResolveHits(ctx, resp.Results, s.concurrency)
	if err != nil {
		return nil, err
	}
	domain.SortByRecency(results)

	if len(results) == 0 {
		return &ResultsPage{State: filter.StateEmpty}, nil
	}

	nav := domain.FilteredPageNavInfo(len(results), q.PageSize, q.Page)

	return &ResultsPage{
		State:      filter.StatePopulated,
		Total:      len(results),
		Nav:        nav,
		Results:    domain.PageResults(results, nav.CurrentPage, q.PageSize),
		Pagination: domain.PageNavItems(nav.CurrentPage, nav.TotalPages),
	}, nil
}
