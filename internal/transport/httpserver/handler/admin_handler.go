package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/transport/httpserver/dto"
	"collection-filter-service/internal/validator"
)

// IndexSyncer runs index syncs on demand.
type IndexSyncer interface {
	SyncAll(ctx context.Context) []service.SyncResult
	SyncSource(ctx context.Context, name string) (*service.SyncResult, error)
	SourceNames() []string
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	syncService IndexSyncer
	validator   *validator.Validator
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(syncSvc IndexSyncer, v *validator.Validator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		syncService: syncSvc,
		validator:   v,
		logger:      logger,
	}
}

// SyncAll handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncAll(c *fiber.Ctx) error {
	h.logger.Info("manual index sync triggered")

	results := h.syncService.SyncAll(c.UserContext())

	return c.JSON(dto.FromSyncResults(results))
}

// SyncSource handles POST /api/v1/admin/sync/:source
func (h *AdminHandler) SyncSource(c *fiber.Ctx) error {
	var req dto.SyncRequest
	if err := c.ParamsParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	h.logger.Info("manual source sync triggered", zap.String("source", req.Source))

	result, err := h.syncService.SyncSource(c.UserContext(), req.Source)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "SYNC_FAILED",
		})
	}

	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "source not found",
			Code:  "SOURCE_NOT_FOUND",
		})
	}

	return c.JSON(dto.FromSyncResult(*result))
}

// Sources handles GET /api/v1/admin/sources
func (h *AdminHandler) Sources(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sources": h.syncService.SourceNames(),
	})
}
