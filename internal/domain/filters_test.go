package domain

import (
	"reflect"
	"testing"
)

func optionValues(options []FilterOption) []string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return values
}

func TestCollectionFilters(t *testing.T) {
	facets := Facets{
		"events_tag": {
			"GEOGRAPHY": 1,
			"CENSUS":    4,
		},
		"events_year": {
			"2023": 2,
			"2025": 3,
		},
		"news_tag": {
			"ECONOMY": 7,
		},
	}

	t.Run("labels carry counts", func(t *testing.T) {
		got := CollectionFilters(facets, "events_tag")
		want := []FilterOption{
			{Value: "CENSUS", TextContent: "CENSUS (4)"},
			{Value: "GEOGRAPHY", TextContent: "GEOGRAPHY (1)"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("CollectionFilters() = %+v, want %+v", got, want)
		}
	})

	t.Run("years most recent first", func(t *testing.T) {
		got := optionValues(CollectionFilters(facets, "events_year"))
		if !reflect.DeepEqual(got, []string{"2025", "2023"}) {
			t.Errorf("CollectionFilters() values = %v", got)
		}
	})

	t.Run("other collections are ignored", func(t *testing.T) {
		got := optionValues(CollectionFilters(facets, "events_"))
		for _, v := range got {
			if v == "ECONOMY" {
				t.Errorf("news facet leaked into events options: %v", got)
			}
		}
		if len(got) != 4 {
			t.Errorf("expected 4 options, got %v", got)
		}
	})

	t.Run("unknown prefix yields empty list", func(t *testing.T) {
		got := CollectionFilters(facets, "reports_tag")
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil list, got %#v", got)
		}
	})
}

func TestCollectionFilters_UnspecifiedOnly(t *testing.T) {
	facets := Facets{"events_tag": {UnspecifiedValue: 12}}

	got := CollectionFilters(facets, "events_tag")
	if len(got) != 0 {
		t.Errorf("expected no options for an unspecified-only facet, got %+v", got)
	}
}

func TestCollectionFilters_UnspecifiedWithOthers(t *testing.T) {
	facets := Facets{"events_tag": {UnspecifiedValue: 12, "CENSUS": 1}}

	got := optionValues(CollectionFilters(facets, "events_tag"))
	if !reflect.DeepEqual(got, []string{"CENSUS", UnspecifiedValue}) {
		t.Errorf("CollectionFilters() values = %v", got)
	}
}

func TestSortFilterOptions(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected []string
	}{
		{
			name:     "numeric descending",
			values:   []string{"2023", "2025", "2024"},
			expected: []string{"2025", "2024", "2023"},
		},
		{
			name:     "text ascending",
			values:   []string{"POPULATION", "CENSUS", "GEOGRAPHY"},
			expected: []string{"CENSUS", "GEOGRAPHY", "POPULATION"},
		},
		{
			name:     "numeric before text",
			values:   []string{"ALPHA", "2023", "BETA", "2025"},
			expected: []string{"2025", "2023", "ALPHA", "BETA"},
		},
		{
			name:     "numeric by value not by string",
			values:   []string{"9", "10", "100"},
			expected: []string{"100", "10", "9"},
		},
		{
			name:     "NaN and inf are text",
			values:   []string{"NaN", "inf", "ALPHA", "2024"},
			expected: []string{"2024", "ALPHA", "NaN", "inf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := make([]FilterOption, len(tt.values))
			for i, v := range tt.values {
				options[i] = FilterOption{Value: v}
			}
			got := optionValues(SortFilterOptions(options))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SortFilterOptions() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFacetKey(t *testing.T) {
	if got := FacetKey("events", "tag"); got != "events_tag" {
		t.Errorf("FacetKey() = %q", got)
	}
}

func TestSearchOptions_IsEmpty(t *testing.T) {
	if !(SearchOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (SearchOptions{Filters: map[string]string{"events_tag": "X"}}).IsEmpty() {
		t.Error("options with a filter should not be empty")
	}
}

func TestFilterByName(t *testing.T) {
	if f, ok := FilterByName("year"); !ok || f.Label != "Year" {
		t.Errorf("FilterByName(year) = %+v, %v", f, ok)
	}
	if IsFilterName("author") {
		t.Error("author is not a configured filter")
	}
}
