package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"collection-filter-service/internal/config"
)

func TestNewSources(t *testing.T) {
	site := config.SiteConfig{BaseURL: "https://site.example", Timeout: 5 * time.Second}
	sources := NewSources(site, config.SourcesConfig{
		Manifest: config.ManifestSourceConfig{Enabled: true},
		Feeds: []config.FeedSourceConfig{
			{Collection: "news", Endpoint: "/news/feed.xml"},
			{Collection: "events"},
		},
	}, zap.NewNop())

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"manifest", "feed_news"}, names)
}

func TestClientConfig(t *testing.T) {
	site := config.SiteConfig{
		BaseURL: "https://site.example",
		Timeout: 5 * time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 2},
		CB:      config.CBConfig{FailureRatio: 0.5},
	}

	got := ClientConfig(site)

	assert.Equal(t, "https://site.example", got.BaseURL)
	assert.Equal(t, 5*time.Second, got.Timeout)
	assert.Equal(t, 2, got.Retry.MaxAttempts)
	assert.InDelta(t, 0.5, got.CB.FailureRatio, 1e-9)
}
