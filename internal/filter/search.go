package filter

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

// TemplateProvider clones pre-rendered markup of another page.
// Implementations: internal/infra/site/client.go
type TemplateProvider interface {
	// CloneTemplate returns a clone of the content of the <template> with
	// templateID on the page at pageURL.
	CloneTemplate(ctx context.Context, pageURL, templateID string) (*dom.Fragment, error)
}

// Search runs a facet query and renders its results. Without filters the
// static content is shown again. Index failures are returned and leave the
// document untouched.
func (p *Page) Search(ctx context.Context, opts domain.SearchOptions) error {
	runCtx, gen := p.begin(ctx)

	if opts.IsEmpty() {
		p.commit(gen, func() {
			DisplayOriginals(p.collectionList)
			DisplayOriginals(p.pagination)
			p.resultState = StateUnfiltered
		})
		return nil
	}

	resp, err := p.index.Search(runCtx, nil, opts)
	if err != nil {
		return fmt.Errorf("searching index: %w", err)
	}

	results, err := ResolveHits(runCtx, resp.Results, p.concurrency)
	if err != nil {
		return err
	}
	domain.SortByRecency(results)

	p.logger.Debug("search completed",
		zap.Any("filters", opts.Filters),
		zap.Int("results", len(results)),
	)

	return p.renderResults(runCtx, gen, results)
}

// ResolveHits loads the payload of every hit, keeping hit order. At most
// limit payloads load at once and the first failure cancels the rest.
func ResolveHits(ctx context.Context, hits []domain.SearchHit, limit int) ([]*domain.ResultData, error) {
	results := make([]*domain.ResultData, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, hit := range hits {
		g.Go(func() error {
			data, err := hit.Data(gctx)
			if err != nil {
				return fmt.Errorf("resolving hit %d: %w", i, err)
			}
			data.FlattenSortField()
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// RenderResults renders sorted results into the filtered subtrees.
func (p *Page) RenderResults(ctx context.Context, results []*domain.ResultData) error {
	runCtx, gen := p.begin(ctx)
	return p.renderResults(runCtx, gen, results)
}

func (p *Page) renderResults(ctx context.Context, gen uint64, results []*domain.ResultData) error {
	if len(results) == 0 {
		p.commit(gen, func() {
			HideBoth(p.collectionList)
			HideBoth(p.pagination)
			p.resultState = StateEmpty
		})
		p.state.SetOffset(0)
		return nil
	}

	var nav domain.FilteredPageNav
	p.withDocument(func() {
		nav = domain.FilteredPageNavInfo(len(results), p.data.PageSize, p.currentPage)
	})

	items := domain.PageNavItems(nav.CurrentPage, nav.TotalPages)
	frag := p.FilteredResultFragment(ctx, domain.PageResults(results, nav.CurrentPage, p.data.PageSize))

	if ctx.Err() != nil {
		p.logger.Debug("search run cancelled before render", zap.Uint64("generation", gen))
		return nil
	}

	committed := p.commit(gen, func() {
		p.currentPage = nav.CurrentPage

		DisplayFiltered(p.collectionList, frag)

		pages := FilteredPaginationFragment(p.doc, items)
		if pages.Len() > 0 {
			p.rewirePaginationLinks(pages)
			DisplayFiltered(p.pagination, pages)
		} else {
			HideBoth(p.pagination)
		}

		p.resultState = StatePopulated
	})
	if committed {
		p.state.SetOffset((nav.CurrentPage - 1) * p.data.PageSize)
	}

	return nil
}

// FilteredResultFragment clones the collection item template of every result
// from its source page. A failing item is logged and leaves a hole; the
// remaining items keep their order. It returns nil when nothing was cloned.
func (p *Page) FilteredResultFragment(ctx context.Context, results []*domain.ResultData) *dom.Fragment {
	if len(results) == 0 {
		return nil
	}

	slots := make([]*dom.Fragment, len(results))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, r := range results {
		g.Go(func() error {
			clone, err := p.templates.CloneTemplate(ctx, r.URL, r.Meta.CollectionItemID)
			if err != nil {
				p.logger.Error("failed to clone collection item",
					zap.String("url", r.URL),
					zap.String("template_id", r.Meta.CollectionItemID),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = clone
			return nil
		})
	}
	_ = g.Wait()

	out := dom.NewFragment()
	for _, s := range slots {
		out.AppendFragment(s)
	}
	if out.Len() == 0 {
		return nil
	}

	return out
}

// rewirePaginationLinks points filtered pagination links at the current URL
// with their page number, keeping the active filters.
func (p *Page) rewirePaginationLinks(pages *dom.Fragment) {
	if p.history == nil {
		return
	}

	base := p.history.URL()
	for _, n := range pages.Nodes() {
		for _, link := range dom.FindAll(n, "a["+dataPage+"]") {
			u := *base
			q := u.Query()
			q.Set(PageParam, dom.Attr(link, dataPage))
			u.RawQuery = q.Encode()
			dom.SetAttr(link, "href", pageHref(&u))
		}
	}
}

func pageHref(u *url.URL) string {
	return (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
}
