package filter

import (
	"strings"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

// GetFiltersFromQueryParams returns the first value of every query parameter.
// The map is empty when the URL has no query string.
func GetFiltersFromQueryParams(h History) map[string]string {
	params := make(map[string]string)
	if h == nil {
		return params
	}

	for key, values := range h.URL().Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	return params
}

// GetSearchOptionsFromQuery translates query-string selections into facet
// filters. Parameters that are not filters of the page are ignored.
func GetSearchOptionsFromQuery(fromQuery map[string]string, fm FiltersMap) domain.SearchOptions {
	opts := domain.SearchOptions{Filters: make(map[string]string)}
	for name, value := range fromQuery {
		entry, ok := fm[name]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		opts.Filters[entry.FacetKey] = value
	}

	return opts
}

// GetSearchOptionsFromSelectedFilters translates resolved selections into
// facet filters.
func GetSearchOptionsFromSelectedFilters(selections map[string]domain.FilterSelection, fm FiltersMap) domain.SearchOptions {
	opts := domain.SearchOptions{Filters: make(map[string]string)}
	for name, sel := range selections {
		entry, ok := fm[name]
		if !ok {
			continue
		}
		opts.Filters[entry.FacetKey] = sel.SelectedValue
	}

	return opts
}

// FilterChange is a change of one filter control.
type FilterChange struct {
	Name  string
	Value string
}

// GetFiltersSelections collects the active filter selections. With a change
// only the changed filter contributes; otherwise every control holding a
// value does. It returns nil when nothing is selected.
func GetFiltersSelections(fm FiltersMap, change *FilterChange) map[string]domain.FilterSelection {
	selections := make(map[string]domain.FilterSelection)

	if change != nil {
		if _, ok := fm[change.Name]; ok && strings.TrimSpace(change.Value) != "" {
			selections[change.Name] = domain.FilterSelection{
				FilterName:    change.Name,
				SelectedValue: change.Value,
			}
		}
	} else {
		for name, entry := range fm {
			value := dom.Value(entry.FilterElement)
			if strings.TrimSpace(value) == "" {
				continue
			}
			selections[name] = domain.FilterSelection{FilterName: name, SelectedValue: value}
		}
	}

	if len(selections) == 0 {
		return nil
	}

	return selections
}

// UpdateHistoryState writes the selections of every configured filter into
// the query string and replaces the current history entry.
func UpdateHistoryState(selections map[string]domain.FilterSelection, h History) {
	if h == nil {
		return
	}

	u := h.URL()
	q := u.Query()
	for _, cfg := range domain.Filters {
		sel, ok := selections[cfg.Name]
		if ok && strings.TrimSpace(sel.SelectedValue) != "" {
			q.Set(cfg.Name, sel.SelectedValue)
			continue
		}
		q.Del(cfg.Name)
	}
	u.RawQuery = q.Encode()

	h.ReplaceState(u)
}
