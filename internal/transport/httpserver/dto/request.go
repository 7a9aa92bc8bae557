// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// CollectionPageRequest holds the query parameters of a server-side
// rendered collection page that the page itself does not interpret.
type CollectionPageRequest struct {
	// Changed names the filter whose control the user changed last.
	Changed string `query:"changed" json:"changed" validate:"omitempty,filtername"`
}

// ResultsRequest represents the query parameters of a filtered results page.
type ResultsRequest struct {
	Collection string `params:"collection" json:"collection" validate:"required,slug,max=100"`
	Tag        string `query:"tag" json:"tag" validate:"omitempty,max=200"`
	Year       string `query:"year" json:"year" validate:"omitempty,max=20"`
	Page       int    `query:"page" json:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ToResultsQuery converts ResultsRequest to a service query, applying
// paging defaults.
func (r *ResultsRequest) ToResultsQuery() service.ResultsQuery {
	q := service.ResultsQuery{
		Collection: r.Collection,
		Selections: make(map[string]string, len(domain.Filters)),
		Page:       defaultPage,
		PageSize:   defaultPageSize,
	}

	if r.Tag != "" {
		q.Selections["tag"] = r.Tag
	}
	if r.Year != "" {
		q.Selections["year"] = r.Year
	}
	if r.Page > 0 {
		q.Page = r.Page
	}
	if r.PageSize > 0 {
		q.PageSize = r.PageSize
	}

	return q
}

// CollectionRequest identifies a collection in the path.
type CollectionRequest struct {
	Collection string `params:"collection" json:"collection" validate:"required,slug,max=100"`
}

// SyncRequest identifies an index source in the path.
type SyncRequest struct {
	Source string `params:"source" json:"source" validate:"required,max=50"`
}
