package filter

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

const defaultConcurrency = 4

// ResultState is the display state of a filterable page.
type ResultState string

const (
	// StateUnfiltered shows the statically rendered content.
	StateUnfiltered ResultState = "unfiltered"
	// StateEmpty hides collection and pagination: filters matched nothing.
	StateEmpty ResultState = "empty"
	// StatePopulated shows the filtered collection and pagination.
	StatePopulated ResultState = "populated"
)

// PageConfig holds the collaborators of a Page.
type PageConfig struct {
	Index     domain.FacetIndex
	Templates TemplateProvider
	History   History
	Navigator Navigator
	Logger    *zap.Logger

	// Concurrency bounds the per-result template fetches.
	Concurrency int
}

// Page drives filtering on one collection page document.
//
// Every document access happens under mu. Each search run gets a generation
// and its own context; starting a run cancels the previous one, and a
// superseded run never writes to the document.
type Page struct {
	doc            *dom.Document
	data           *FiltersData
	collectionList *ElementsPair
	pagination     *ElementsPair

	index       domain.FacetIndex
	templates   TemplateProvider
	history     History
	navigator   Navigator
	logger      *zap.Logger
	concurrency int
	state       *SearchState

	mu          sync.Mutex
	generation  uint64
	cancel      context.CancelFunc
	currentPage int
	resultState ResultState
}

// NewPage prepares doc for filtering: it decodes the page configuration and
// adds the filtered siblings of the collection and pagination lists. It
// returns nil when the page is not filterable.
func NewPage(doc *dom.Document, cfg PageConfig) *Page {
	data := NewFiltersData(doc)
	if data == nil {
		return nil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Page{
		doc:            doc,
		data:           data,
		collectionList: CreateFilteredCollectionItemList(doc),
		pagination:     CreateFilteredPagination(doc),
		index:          cfg.Index,
		templates:      cfg.Templates,
		history:        cfg.History,
		navigator:      cfg.Navigator,
		logger:         logger.With(zap.String("collection", data.CollectionName)),
		concurrency:    concurrency,
		state:          NewSearchState(),
		currentPage:    1,
		resultState:    StateUnfiltered,
	}
}

// Data returns the page configuration.
func (p *Page) Data() *FiltersData {
	return p.data
}

// State returns the search state of the page.
func (p *Page) State() *SearchState {
	return p.state
}

// ResultState returns the current display state.
func (p *Page) ResultState() ResultState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.resultState
}

// CurrentPage returns the current filtered page.
func (p *Page) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentPage
}

// Load populates the filter controls and applies the filters found in the
// query string.
func (p *Page) Load(ctx context.Context) error {
	fromQuery := GetFiltersFromQueryParams(p.history)
	if page := domain.ParsePageNumber(fromQuery[PageParam]); page > 0 {
		p.setCurrentPage(page)
	}

	facets, err := p.index.Filters(ctx)
	if err != nil {
		return fmt.Errorf("loading facets: %w", err)
	}

	p.mu.Lock()
	if RenderFilters(p.data.FiltersMap, fromQuery, facets) {
		dom.SetHidden(p.doc.ElementByID(FiltersBarID), false)
	}
	p.mu.Unlock()

	return p.Search(ctx, GetSearchOptionsFromQuery(fromQuery, p.data.FiltersMap))
}

// ChangeFilter applies a change of one filter control. Only the changed
// filter stays selected. On a static page other than the first the user is
// sent to the first page instead of filtering in place.
func (p *Page) ChangeFilter(ctx context.Context, change FilterChange) error {
	entry, ok := p.data.FiltersMap[change.Name]
	if !ok {
		return nil
	}

	p.mu.Lock()
	for name, other := range p.data.FiltersMap {
		if name == change.Name {
			continue
		}
		dom.SetValue(other.FilterElement, "")
	}
	dom.SetValue(entry.FilterElement, change.Value)
	firstPageLink := GetFirstPageLinkURL(p.doc)
	p.mu.Unlock()

	selections := GetFiltersSelections(p.data.FiltersMap, &change)

	if selections != nil && p.data.CurrentPage > 1 {
		if firstPageLink == "" {
			firstPageLink = p.data.BaseURL
		}
		if NavigateToTheFirstPage(p.navigator, firstPageLink, selections) {
			return nil
		}
	}

	p.setCurrentPage(1)
	UpdateHistoryState(selections, p.history)
	p.setPageParam(0)

	return p.Search(ctx, GetSearchOptionsFromSelectedFilters(selections, p.data.FiltersMap))
}

// GoToPage shows another page of the filtered results. It is a no-op while
// no filter is selected; the static links handle paging then.
func (p *Page) GoToPage(ctx context.Context, page int) error {
	p.mu.Lock()
	selections := GetFiltersSelections(p.data.FiltersMap, nil)
	p.mu.Unlock()

	if selections == nil {
		return nil
	}

	p.setCurrentPage(page)
	p.setPageParam(page)

	return p.Search(ctx, GetSearchOptionsFromSelectedFilters(selections, p.data.FiltersMap))
}

func (p *Page) setCurrentPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.currentPage = page
}

// setPageParam writes the page query parameter; 0 removes it.
func (p *Page) setPageParam(page int) {
	if p.history == nil {
		return
	}

	u := p.history.URL()
	q := u.Query()
	if page > 0 {
		q.Set(PageParam, strconv.Itoa(page))
	} else {
		q.Del(PageParam)
	}
	u.RawQuery = q.Encode()

	p.history.ReplaceState(u)
}

// begin starts a new run, cancelling the previous one.
func (p *Page) begin(ctx context.Context) (context.Context, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.generation++
	p.cancel = cancel

	return runCtx, p.generation
}

// Close cancels the context of the latest search run. The page stays
// usable; a later search starts a new run.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// commit applies fn to the document if gen is still the latest run.
func (p *Page) commit(gen uint64, fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug("dropping superseded search run", zap.Uint64("generation", gen))
		return false
	}

	fn()
	return true
}

// withDocument runs fn under the document lock.
func (p *Page) withDocument(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn()
}
