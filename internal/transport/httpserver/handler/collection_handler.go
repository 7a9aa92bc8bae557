// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/filter"
	"collection-filter-service/internal/transport/httpserver/dto"
	"collection-filter-service/internal/validator"
)

// ReplaceURLHeader carries the synchronized address of a rendered page.
const ReplaceURLHeader = "X-Replace-Url"

// changedParam names the filter changed by a submitted filter form.
const changedParam = "changed"

// CollectionRenderer renders filtered collection pages.
type CollectionRenderer interface {
	RenderCollectionPage(ctx context.Context, req service.CollectionPageRequest) (*service.RenderedPage, error)
}

// CollectionHandler serves static collection pages with filters applied.
type CollectionHandler struct {
	renderer  CollectionRenderer
	prefix    string
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCollectionHandler creates a new CollectionHandler for pages mounted
// under prefix.
func NewCollectionHandler(r CollectionRenderer, prefix string, v *validator.Validator, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		renderer:  r,
		prefix:    strings.TrimSuffix(prefix, "/"),
		validator: v,
		logger:    logger,
	}
}

// Render handles GET <prefix>/*
func (h *CollectionHandler) Render(c *fiber.Ctx) error {
	var req dto.CollectionPageRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	pageURL, err := url.Parse(c.OriginalURL())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid url",
			Code:  "INVALID_URL",
		})
	}

	var change *filter.FilterChange
	if req.Changed != "" {
		q := pageURL.Query()
		change = &filter.FilterChange{Name: req.Changed, Value: q.Get(req.Changed)}
		q.Del(changedParam)
		pageURL.RawQuery = q.Encode()
	}

	sitePath := strings.TrimPrefix(pageURL.Path, h.prefix)
	if sitePath == "" {
		sitePath = "/"
	}

	out, err := h.renderer.RenderCollectionPage(c.UserContext(), service.CollectionPageRequest{
		SitePath: sitePath,
		URL:      pageURL,
		Change:   change,
	})
	if err != nil {
		h.logger.Error("collection page render failed",
			zap.String("path", sitePath),
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "collection page unavailable",
			Code:  "UPSTREAM_ERROR",
		})
	}

	if out.RedirectURL != "" {
		return c.Redirect(h.public(out.RedirectURL), fiber.StatusFound)
	}

	if out.URL != c.OriginalURL() {
		c.Set(ReplaceURLHeader, out.URL)
	}
	c.Type("html", "utf-8")

	return c.SendString(out.HTML)
}

// public maps a site-relative href onto the pages served by this handler.
func (h *CollectionHandler) public(href string) string {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, h.prefix+"/") {
		return href
	}

	return h.prefix + href
}
