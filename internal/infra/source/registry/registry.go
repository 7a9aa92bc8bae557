// Package registry builds the configured index sources.
package registry

import (
	"go.uber.org/zap"

	"collection-filter-service/internal/config"
	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/infra/httpclient"
	"collection-filter-service/internal/infra/source/feed"
	"collection-filter-service/internal/infra/source/manifest"
)

// ClientConfig maps the site settings onto an outbound client configuration.
func ClientConfig(cfg config.SiteConfig) httpclient.ClientConfig {
	return httpclient.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry: httpclient.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
		},
		CB: httpclient.CBConfig{
			MaxRequests:  cfg.CB.MaxRequests,
			Interval:     cfg.CB.Interval,
			Timeout:      cfg.CB.Timeout,
			FailureRatio: cfg.CB.FailureRatio,
		},
	}
}

// NewSources creates every configured source. Feeds without a collection or
// endpoint are skipped.
func NewSources(site config.SiteConfig, cfg config.SourcesConfig, logger *zap.Logger) []domain.Source {
	clientCfg := ClientConfig(site)
	sources := make([]domain.Source, 0, 1+len(cfg.Feeds))

	if cfg.Manifest.Enabled {
		sources = append(sources, manifest.New(clientCfg, cfg.Manifest.Endpoint, logger))
	}

	for _, f := range cfg.Feeds {
		if f.Collection == "" || f.Endpoint == "" {
			logger.Warn("skipping incomplete feed source", zap.String("collection", f.Collection))
			continue
		}
		sources = append(sources, feed.New(clientCfg, f.Collection, f.Endpoint, logger))
	}

	return sources
}
