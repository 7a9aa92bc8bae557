package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IndexStats reports the state of the facet index.
type IndexStats interface {
	Count(ctx context.Context, collection string) (int64, error)
	SourceNames() []string
}

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	stats  IndexStats
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(stats IndexStats, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:  stats,
		logger: logger,
	}
}

// Render handles GET /dashboard
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	count, err := h.stats.Count(c.UserContext(), "")
	if err != nil {
		h.logger.Warn("counting index entries failed", zap.Error(err))
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":      "Collection Filters",
		"EntryCount": count,
		"Sources":    h.stats.SourceNames(),
	}, "layouts/base")
}
