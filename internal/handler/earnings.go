package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

type EarningsHandler struct {
	earnings *service.EarningsService
}

func NewEarningsHandler(earnings *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earnings: earnings}
}

type processEarningsRequest struct {
	CreatorID string `json:"creatorId"`
}

// Process handles POST /api/posts/:postId/earnings
func (h *EarningsHandler) Process(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidatePostID(c.Params("postId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req processEarningsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	creatorID, errMsg := middleware.ValidateAccountID(req.CreatorID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.earnings.ProcessEarnings(c.Context(), postID, creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Post or creator not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process earnings")
	}

	if res.Success {
		Metrics.EarningsProcessed.Add(res.FinalEarnings)
	} else if res.Blocked {
		Metrics.EarningsBlocked.Inc()
	}
	return c.JSON(res)
}

// Preview handles GET /api/posts/:postId/earnings?creatorId=...
// Read-only raw earnings calculation, nothing persisted.
func (h *EarningsHandler) Preview(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidatePostID(c.Params("postId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	creatorID, errMsg := middleware.ValidateAccountID(c.Query("creatorId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	raw, err := h.earnings.CalculateRawEarnings(c.Context(), postID, creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Post or creator not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to calculate earnings")
	}
	return c.JSON(raw)
}
