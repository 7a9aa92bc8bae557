package dto

import (
	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/domain"
)

// FiltersResponse lists the options of every filter of a collection.
type FiltersResponse struct {
	Collection string                  `json:"collection"`
	Filters    []service.FilterOptions `json:"filters"`
}

// ResultResponse represents one filtered collection item.
type ResultResponse struct {
	URL              string              `json:"url"`
	Title            string              `json:"title"`
	SortField        string              `json:"sort_field"`
	CollectionItemID string              `json:"collection_item_id"`
	Filters          map[string][]string `json:"filters,omitempty"`
}

// ResultsResponse represents one page of filtered results.
type ResultsResponse struct {
	State      string               `json:"state"`
	Results    []ResultResponse     `json:"results"`
	Pagination []domain.PageNavItem `json:"pagination"`
	Meta       ResultsMeta          `json:"meta"`
}

// ResultsMeta holds paging metadata.
type ResultsMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// FromResultsPage converts a service results page to ResultsResponse.
func FromResultsPage(page *service.ResultsPage, pageSize int) ResultsResponse {
	resp := ResultsResponse{
		State:      string(page.State),
		Results:    make([]ResultResponse, len(page.Results)),
		Pagination: page.Pagination,
		Meta: ResultsMeta{
			Total:      page.Total,
			Page:       page.Nav.CurrentPage,
			PageSize:   pageSize,
			TotalPages: page.Nav.TotalPages,
		},
	}
	if resp.Pagination == nil {
		resp.Pagination = []domain.PageNavItem{}
	}

	for i, r := range page.Results {
		resp.Results[i] = ResultResponse{
			URL:              r.URL,
			Title:            r.Meta.Title,
			SortField:        r.SortField,
			CollectionItemID: r.Meta.CollectionItemID,
			Filters:          r.Filters,
		}
	}

	return resp
}

// SyncResultResponse represents the response for one source sync.
type SyncResultResponse struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Removed  int64  `json:"removed"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// FromSyncResult converts a service.SyncResult to SyncResultResponse.
func FromSyncResult(r service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		Source:   r.Source,
		Count:    r.Count,
		Removed:  r.Removed,
		Duration: r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}

	return resp
}

// SyncResponse represents the response for a sync of every source.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds summary of sync operation.
type SyncSummary struct {
	TotalSynced int `json:"total_synced"`
	SourcesOK   int `json:"sources_ok"`
	SourcesFail int `json:"sources_fail"`
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.SourcesFail++
		} else {
			resp.Summary.TotalSynced += r.Count
			resp.Summary.SourcesOK++
		}
		resp.Results[i] = FromSyncResult(r)
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
