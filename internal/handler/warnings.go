package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

type WarningHandler struct {
	warnings *service.WarningService
}

func NewWarningHandler(warnings *service.WarningService) *WarningHandler {
	return &WarningHandler{warnings: warnings}
}

// Status handles GET /api/creators/:creatorId/status
func (h *WarningHandler) Status(c fiber.Ctx) error {
	creatorID, errMsg := middleware.ValidateAccountID(c.Params("creatorId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.warnings.GetCreatorStatus(c.Context(), creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Creator not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get creator status")
	}
	return c.JSON(res)
}

// List handles GET /api/creators/:creatorId/warnings
func (h *WarningHandler) List(c fiber.Ctx) error {
	creatorID, errMsg := middleware.ValidateAccountID(c.Params("creatorId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	warnings, err := h.warnings.ListWarnings(c.Context(), creatorID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list warnings")
	}
	if warnings == nil {
		warnings = []model.Warning{}
	}

	return c.JSON(fiber.Map{
		"creatorId": creatorID,
		"warnings":  warnings,
		"count":     len(warnings),
	})
}

// ClearExpired handles POST /api/admin/warnings/clear-expired
func (h *WarningHandler) ClearExpired(c fiber.Ctx) error {
	cleared, err := h.warnings.ClearExpiredWarnings(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear expired warnings")
	}
	return c.JSON(fiber.Map{"cleared": cleared})
}
