// Package manifest implements the JSON index manifest source.
package manifest

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/infra/httpclient"
)

// Name identifies the source.
const Name = "manifest"

// DefaultEndpoint is the path of the manifest on the static site.
const DefaultEndpoint = "/index/manifest.json"

// Client implements domain.Source for the JSON manifest.
type Client struct {
	endpoint string
	client   *resty.Client
	cb       *gobreaker.CircuitBreaker[*resty.Response]
	logger   *zap.Logger
}

// New creates a manifest client. An empty endpoint uses DefaultEndpoint.
func New(cfg httpclient.ClientConfig, endpoint string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		client:   httpclient.NewRestyClient(cfg),
		cb:       httpclient.NewCircuitBreaker[*resty.Response](Name, cfg.CB, logger),
		logger:   logger.With(zap.String("source", Name)),
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return Name
}

// Fetch retrieves every entry of the manifest.
func (c *Client) Fetch(ctx context.Context) ([]*domain.IndexEntry, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result Manifest
		r, err := c.client.R().
			SetContext(ctx).
			SetResult(&result).
			ForceContentType("application/json").
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
		c.logger.Warn("manifest fetch failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("fetching manifest: %w", err)
	}

	result := resp.Result().(*Manifest)
	entries := make([]*domain.IndexEntry, 0, len(result.Entries))
	for _, item := range result.Entries {
		if item.ID == "" || item.Collection == "" || item.URL == "" {
			c.logger.Warn("skipping incomplete manifest entry", zap.String("id", item.ID))
			continue
		}
		entries = append(entries, item.ToDomain(Name))
	}

	c.logger.Info("manifest fetch completed", zap.Int("count", len(entries)))

	return entries, nil
}

// HealthCheck verifies the manifest is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return httpclient.HealthCheck(ctx, c.client, c.endpoint)
}
