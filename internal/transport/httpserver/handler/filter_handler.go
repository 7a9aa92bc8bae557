package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/transport/httpserver/dto"
	"collection-filter-service/internal/validator"
)

// FilterQuerier answers filter queries of a collection.
type FilterQuerier interface {
	Options(ctx context.Context, collection string) ([]service.FilterOptions, error)
	Results(ctx context.Context, q service.ResultsQuery) (*service.ResultsPage, error)
}

// FilterHandler handles the filter API of collections.
type FilterHandler struct {
	service   FilterQuerier
	validator *validator.Validator
	logger    *zap.Logger
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(svc FilterQuerier, v *validator.Validator, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Filters handles GET /api/v1/collections/:collection/filters
func (h *FilterHandler) Filters(c *fiber.Ctx) error {
	var req dto.CollectionRequest
	if err := c.ParamsParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	options, err := h.service.Options(c.UserContext(), req.Collection)
	if err != nil {
		h.logger.Error("loading filter options failed",
			zap.String("collection", req.Collection),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to load filters",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FiltersResponse{
		Collection: req.Collection,
		Filters:    options,
	})
}

// Results handles GET /api/v1/collections/:collection/results
func (h *FilterHandler) Results(c *fiber.Ctx) error {
	var req dto.ResultsRequest
	if err := c.ParamsParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	q := req.ToResultsQuery()
	page, err := h.service.Results(c.UserContext(), q)
	if err != nil {
		h.logger.Error("filtered search failed",
			zap.String("collection", req.Collection),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "search failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromResultsPage(page, q.PageSize))
}

func invalidParams(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: "invalid parameters",
		Code:  "INVALID_PARAMS",
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: err,
	})
}
