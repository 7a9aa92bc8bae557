// Package feed implements the RSS or Atom collection feed source.
package feed

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/infra/httpclient"
)

// Client implements domain.Source for the feed of one collection.
type Client struct {
	name       string
	collection string
	endpoint   string
	client     *resty.Client
	cb         *gobreaker.CircuitBreaker[*resty.Response]
	logger     *zap.Logger
}

// New creates a feed client for collection, reading endpoint.
func New(cfg httpclient.ClientConfig, collection, endpoint string, logger *zap.Logger) *Client {
	name := "feed_" + collection

	return &Client{
		name:       name,
		collection: collection,
		endpoint:   endpoint,
		client:     httpclient.NewRestyClient(cfg),
		cb:         httpclient.NewCircuitBreaker[*resty.Response](name, cfg.CB, logger),
		logger:     logger.With(zap.String("source", name)),
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return c.name
}

// Fetch retrieves every item of the feed.
func (c *Client) Fetch(ctx context.Context) ([]*domain.IndexEntry, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml").
			Get(c.endpoint)
		if err != nil {
			return nil, err
		}
		if err := httpclient.CheckStatus(r); err != nil {
			return nil, err
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("feed fetch failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}

	feed, err := gofeed.NewParser().ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.name, err)
	}

	entries := make([]*domain.IndexEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := toEntry(item, c.name, c.collection)
		if entry.ExternalID == "" || entry.URL == "" {
			c.logger.Warn("skipping feed item without guid or link", zap.String("title", item.Title))
			continue
		}
		entries = append(entries, entry)
	}

	c.logger.Info("feed fetch completed", zap.Int("count", len(entries)))

	return entries, nil
}

// HealthCheck verifies the feed is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return httpclient.HealthCheck(ctx, c.client, c.endpoint)
}
