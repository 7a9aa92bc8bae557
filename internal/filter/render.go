package filter

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

const dataPlaceholder = "data-placeholder"

// RenderFilters populates every filter control present on the page from the
// facet counts, pre-selects values found in the query string and reveals
// the nav containers that have something to offer. It reports whether any
// filter was displayed.
func RenderFilters(fm FiltersMap, fromQuery map[string]string, facets domain.Facets) bool {
	displayed := false
	for _, cfg := range domain.Filters {
		entry, ok := fm[cfg.Name]
		if !ok || entry.FilterElement == nil || entry.NavElement == nil {
			continue
		}

		options := domain.CollectionFilters(facets, entry.FacetKey)
		if dom.IsSelect(entry.FilterElement) {
			populateSelect(entry.FilterElement, cfg.Label, options)
		}

		if value := strings.TrimSpace(fromQuery[cfg.Name]); value != "" {
			if dom.SetValue(entry.FilterElement, value) {
				dom.SetHidden(entry.NavElement, false)
				displayed = true
			}
		}

		if len(options) > 0 {
			dom.SetHidden(entry.NavElement, false)
			displayed = true
		}
	}

	return displayed
}

// populateSelect replaces the options of a select, keeping a single leading
// placeholder.
func populateSelect(sel *html.Node, label string, options []domain.FilterOption) {
	var placeholder *html.Node
	for _, o := range dom.Options(sel) {
		if placeholder == nil && isPlaceholder(o) {
			placeholder = o
			continue
		}
		o.Parent.RemoveChild(o)
	}

	if placeholder == nil {
		placeholder = dom.NewOption("", "Select "+label)
		dom.SetAttr(placeholder, "disabled", "")
		dom.SetAttr(placeholder, "hidden", "")
		dom.SetAttr(placeholder, dataPlaceholder, "")
		if sel.FirstChild != nil {
			sel.InsertBefore(placeholder, sel.FirstChild)
		} else {
			sel.AppendChild(placeholder)
		}
	}

	for _, opt := range options {
		sel.AppendChild(dom.NewOption(opt.Value, opt.TextContent))
	}
}

func isPlaceholder(o *html.Node) bool {
	if dom.HasAttr(o, dataPlaceholder) {
		return true
	}
	return dom.Attr(o, "value") == "" && dom.HasAttr(o, "value") && dom.HasAttr(o, "disabled")
}

// NavigateToTheFirstPage sends the user to the first page of the collection
// with the selections as query parameters. It reports whether a navigation
// happened.
func NavigateToTheFirstPage(nav Navigator, firstPageLinkURL string, selections map[string]domain.FilterSelection) bool {
	if nav == nil || firstPageLinkURL == "" {
		return false
	}

	u, err := url.Parse(firstPageLinkURL)
	if err != nil {
		return false
	}

	q := u.Query()
	for name, sel := range selections {
		if strings.TrimSpace(sel.SelectedValue) == "" {
			continue
		}
		q.Set(name, sel.SelectedValue)
	}
	u.RawQuery = q.Encode()

	nav.Navigate(u.String())
	return true
}
