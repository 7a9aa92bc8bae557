// Package domain contains the core filtering model: recognized filters, facet
// options, pagination math and the ports the filtering layer consumes.
// This package has no external dependencies (only stdlib).
package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// UnspecifiedValue is the facet value the content pipeline emits when an
// item carries no value for a filter.
const UnspecifiedValue = "Unspecified"

// FilterConfig describes a filter recognized on collection pages.
type FilterConfig struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Filters is the fixed set of recognized filters, in display order.
var Filters = []FilterConfig{
	{Name: "tag", Label: "Tag"},
	{Name: "year", Label: "Year"},
}

// FilterByName returns the configured filter with the given name.
func FilterByName(name string) (FilterConfig, bool) {
	for _, f := range Filters {
		if f.Name == name {
			return f, true
		}
	}

	return FilterConfig{}, false
}

// IsFilterName reports whether name is a recognized filter.
func IsFilterName(name string) bool {
	_, ok := FilterByName(name)
	return ok
}

// FacetKey returns the index facet key for a filter of a collection,
// e.g. FacetKey("events", "tag") == "events_tag".
func FacetKey(collection, filterName string) string {
	return collection + "_" + filterName
}

// FilterOption is one selectable value of a filter control.
type FilterOption struct {
	Value       string `json:"value"`
	TextContent string `json:"text_content"`
}

// FilterSelection is the value currently chosen for a filter.
type FilterSelection struct {
	FilterName    string `json:"filter_name"`
	SelectedValue string `json:"selected_value"`
}

// SearchOptions is the shape the facet index expects: facet key -> value.
type SearchOptions struct {
	Filters map[string]string `json:"filters"`
}

// IsEmpty reports whether no facet filter is set.
func (o SearchOptions) IsEmpty() bool {
	return len(o.Filters) == 0
}

// Facets maps facet key -> facet value -> number of matching entries.
type Facets map[string]map[string]int

// CollectionFilters derives the options of a filter from the facet index.
// Every facet key starting with keyPrefix contributes one option per value,
// labelled "<value> (<count>)". A filter whose only option is
// UnspecifiedValue yields no options.
func CollectionFilters(facets Facets, keyPrefix string) []FilterOption {
	keys := make([]string, 0, len(facets))
	for key := range facets {
		if strings.HasPrefix(key, keyPrefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	options := []FilterOption{}
	for _, key := range keys {
		values := facets[key]
		names := make([]string, 0, len(values))
		for v := range values {
			names = append(names, v)
		}
		slices.Sort(names)

		for _, v := range names {
			options = append(options, FilterOption{
				Value:       v,
				TextContent: fmt.Sprintf("%s (%d)", v, values[v]),
			})
		}
	}

	if len(options) == 1 && options[0].Value == UnspecifiedValue {
		return []FilterOption{}
	}

	return SortFilterOptions(options)
}

// SortFilterOptions orders options in place and returns them.
// Numeric values come first, highest first (years read most recent first);
// the rest follow in ascending lexicographic order.
func SortFilterOptions(options []FilterOption) []FilterOption {
	slices.SortStableFunc(options, func(a, b FilterOption) int {
		an, aNum := numericValue(a.Value)
		bn, bNum := numericValue(b.Value)

		switch {
		case aNum && bNum:
			switch {
			case an > bn:
				return -1
			case an < bn:
				return 1
			default:
				return 0
			}
		case aNum:
			return -1
		case bNum:
			return 1
		default:
			return strings.Compare(a.Value, b.Value)
		}
	})

	return options
}

func numericValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	// ParseFloat also accepts "inf"; "Infinity" is the only spelling kept.
	if math.IsInf(n, 0) && strings.TrimLeft(s, "+-") != "Infinity" {
		return 0, false
	}

	return n, true
}
