package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/filter"
	"collection-filter-service/internal/transport/httpserver/dto"
	"collection-filter-service/internal/validator"
)

type fakeRenderer struct {
	got service.CollectionPageRequest
	out *service.RenderedPage
	err error
}

func (f *fakeRenderer) RenderCollectionPage(_ context.Context, req service.CollectionPageRequest) (*service.RenderedPage, error) {
	f.got = req
	return f.out, f.err
}

type fakeQuerier struct {
	got service.ResultsQuery
}

func (f *fakeQuerier) Options(context.Context, string) ([]service.FilterOptions, error) {
	return []service.FilterOptions{{Name: "tag", Label: "Tag", Options: []domain.FilterOption{{Value: "CENSUS", TextContent: "CENSUS (1)"}}}}, nil
}

func (f *fakeQuerier) Results(_ context.Context, q service.ResultsQuery) (*service.ResultsPage, error) {
	f.got = q
	return &service.ResultsPage{State: filter.StateEmpty}, nil
}

type fakeSyncer struct{}

func (fakeSyncer) SyncAll(context.Context) []service.SyncResult {
	return []service.SyncResult{{Source: "manifest", Count: 2}}
}

func (fakeSyncer) SyncSource(_ context.Context, name string) (*service.SyncResult, error) {
	switch name {
	case "manifest":
		return &service.SyncResult{Source: name, Count: 2}, nil
	case "feed_news":
		return &service.SyncResult{Source: name}, errors.New("feed unavailable")
	default:
		return nil, nil
	}
}

func (fakeSyncer) SourceNames() []string { return []string{"manifest", "feed_news"} }

func newTestApp(r CollectionRenderer, q FilterQuerier) *fiber.App {
	v := validator.New()
	logger := zap.NewNop()

	app := fiber.New()
	collections := NewCollectionHandler(r, "/collections", v, logger)
	filters := NewFilterHandler(q, v, logger)
	admin := NewAdminHandler(fakeSyncer{}, v, logger)

	app.Get("/collections/*", collections.Render)
	app.Get("/api/v1/collections/:collection/filters", filters.Filters)
	app.Get("/api/v1/collections/:collection/results", filters.Results)
	app.Post("/api/v1/admin/sync", admin.SyncAll)
	app.Post("/api/v1/admin/sync/:source", admin.SyncSource)
	app.Get("/api/v1/admin/sources", admin.Sources)

	return app
}

func TestCollectionHandler_Render(t *testing.T) {
	r := &fakeRenderer{out: &service.RenderedPage{
		HTML: "<html></html>",
		URL:  "/collections/events/?tag=CENSUS",
	}}
	app := newTestApp(r, &fakeQuerier{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/collections/events/?changed=tag&tag=CENSUS&year=2024", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/events/", r.got.SitePath)
	assert.Equal(t, &filter.FilterChange{Name: "tag", Value: "CENSUS"}, r.got.Change)
	assert.Equal(t, "tag=CENSUS&year=2024", r.got.URL.RawQuery)
	assert.Equal(t, "/collections/events/?tag=CENSUS", resp.Header.Get(ReplaceURLHeader))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<html></html>", string(body))
}

func TestCollectionHandler_Redirect(t *testing.T) {
	r := &fakeRenderer{out: &service.RenderedPage{RedirectURL: "/events/?tag=CENSUS"}}
	app := newTestApp(r, &fakeQuerier{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/collections/events/page/2/?changed=tag&tag=CENSUS", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/collections/events/?tag=CENSUS", resp.Header.Get(fiber.HeaderLocation))
}

func TestCollectionHandler_Errors(t *testing.T) {
	r := &fakeRenderer{err: errors.New("site down")}
	app := newTestApp(r, &fakeQuerier{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/collections/events/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/collections/events/?changed=color", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFilterHandler(t *testing.T) {
	q := &fakeQuerier{}
	app := newTestApp(&fakeRenderer{}, q)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/collections/events/filters", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var filters dto.FiltersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filters))
	assert.Equal(t, "events", filters.Collection)
	assert.Equal(t, "tag", filters.Filters[0].Name)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/collections/events/results?tag=CENSUS&page=2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"tag": "CENSUS"}, q.got.Selections)
	assert.Equal(t, 2, q.got.Page)

	var results dto.ResultsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	assert.Equal(t, "empty", results.State)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/collections/Events_2/results", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandler(t *testing.T) {
	app := newTestApp(&fakeRenderer{}, &fakeQuerier{})

	tests := []struct {
		path   string
		status int
	}{
		{path: "/api/v1/admin/sync", status: fiber.StatusOK},
		{path: "/api/v1/admin/sync/manifest", status: fiber.StatusOK},
		{path: "/api/v1/admin/sync/feed_news", status: fiber.StatusInternalServerError},
		{path: "/api/v1/admin/sync/unknown", status: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/admin/sources", nil))
	require.NoError(t, err)

	var body struct {
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"manifest", "feed_news"}, body.Sources)
}
