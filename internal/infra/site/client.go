// Package site fetches pages of the static site and clones the templates
// they embed.
package site

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/infra/httpclient"
)

const breakerName = "site"

// Client reads pages of the static site. Page bodies are cached when a
// cache is configured.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a site client. cache may be nil.
func New(cfg httpclient.ClientConfig, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client: httpclient.NewRestyClient(cfg),
		cb:     httpclient.NewCircuitBreaker[[]byte](breakerName, cfg.CB, logger),
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(zap.String("component", breakerName)),
	}
}

// FetchPage returns the HTML of the page at pageURL, relative to the site
// base URL or absolute.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if body := c.cached(ctx, pageURL); body != nil {
		return body, nil
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "text/html").
			Get(pageURL)
		if err != nil {
			return nil, err
		}
		if err := httpclient.CheckStatus(r); err != nil {
			return nil, err
		}

		return r.Body(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageURL, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, pageURL, body, c.ttl); err != nil {
			c.logger.Warn("failed to cache page", zap.String("url", pageURL), zap.Error(err))
		}
	}

	return body, nil
}

func (c *Client) cached(ctx context.Context, pageURL string) []byte {
	if c.cache == nil {
		return nil
	}

	body, err := c.cache.Get(ctx, pageURL)
	if err != nil {
		c.logger.Warn("page cache read failed", zap.String("url", pageURL), zap.Error(err))
		return nil
	}

	return body
}

// FetchDocument fetches and parses the page at pageURL.
func (c *Client) FetchDocument(ctx context.Context, pageURL string) (*dom.Document, error) {
	body, err := c.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", pageURL, err)
	}

	return doc, nil
}

// CloneTemplate fetches the page at pageURL and clones the content of its
// <template> element with templateID.
func (c *Client) CloneTemplate(ctx context.Context, pageURL, templateID string) (*dom.Fragment, error) {
	doc, err := c.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	frag, err := doc.CloneTemplate(templateID)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageURL, err)
	}

	return frag, nil
}

// HealthCheck verifies the site root is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return httpclient.HealthCheck(ctx, c.client, "/")
}
