package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

type DiversityHandler struct {
	diversity *service.DiversityService
}

func NewDiversityHandler(diversity *service.DiversityService) *DiversityHandler {
	return &DiversityHandler{diversity: diversity}
}

// Score handles GET /api/posts/:postId/diversity
func (h *DiversityHandler) Score(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidatePostID(c.Params("postId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.diversity.CalculateDiversityScore(c.Context(), postID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to calculate diversity score")
	}

	Metrics.PolicyActions.WithLabelValues(string(res.Action)).Inc()
	if res.Flagged {
		Metrics.FlagsCreated.WithLabelValues(string(model.FlagLowDiversity)).Inc()
	}
	return c.JSON(res)
}

// Breakdown handles GET /api/posts/:postId/breakdown
func (h *DiversityHandler) Breakdown(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidatePostID(c.Params("postId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	users, err := h.diversity.GetEngagementBreakdown(c.Context(), postID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get engagement breakdown")
	}
	if users == nil {
		users = []model.UserEngagement{}
	}

	return c.JSON(fiber.Map{
		"postId":    postID,
		"engagers":  users,
		"userCount": len(users),
	})
}

// Pods handles GET /api/admin/pods
func (h *DiversityHandler) Pods(c fiber.Ctx) error {
	pairs, err := h.diversity.IdentifyGamingPods(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to identify gaming pods")
	}

	return c.JSON(fiber.Map{
		"pods":  pairs,
		"count": len(pairs),
	})
}

// Trends handles GET /api/admin/trends
func (h *DiversityHandler) Trends(c fiber.Ctx) error {
	res, err := h.diversity.TrackDiversityTrends(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute diversity trends")
	}
	return c.JSON(res)
}
