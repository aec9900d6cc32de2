package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

type EngagementHandler struct {
	velocity *service.VelocityService
}

func NewEngagementHandler(velocity *service.VelocityService) *EngagementHandler {
	return &EngagementHandler{velocity: velocity}
}

// Record handles POST /api/engagements
func (h *EngagementHandler) Record(c fiber.Ctx) error {
	var req model.EngagementRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	postID, errMsg := middleware.ValidatePostID(req.PostID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.PostID = postID

	userID, errMsg := middleware.ValidateAccountID(req.UserID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.UserID = userID

	if !model.ValidEngagementTypes[req.Type] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TYPE",
			"Invalid engagement type. Must be one of: LIKE, COMMENT, SHARE")
	}
	req.Body = middleware.ValidateCommentBody(req.Body)

	res, err := h.velocity.RecordEngagement(c.Context(), req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Post or account not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record engagement")
	}

	if res.Success {
		Metrics.EngagementsTotal.WithLabelValues(string(req.Type)).Inc()
	} else {
		Metrics.EngagementsRejected.Inc()
	}
	return c.JSON(res)
}

// Velocity handles GET /api/posts/:postId/velocity?type=LIKE
func (h *EngagementHandler) Velocity(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidatePostID(c.Params("postId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	typ := model.EngagementType(c.Query("type", string(model.EngagementLike)))
	if !model.ValidEngagementTypes[typ] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TYPE",
			"Invalid engagement type. Must be one of: LIKE, COMMENT, SHARE")
	}

	res, err := h.velocity.CheckEngagementVelocity(c.Context(), postID, typ)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check velocity")
	}

	Metrics.PolicyActions.WithLabelValues(string(res.Action)).Inc()
	if res.Flagged {
		Metrics.FlagsCreated.WithLabelValues(string(model.FlagHighVelocity)).Inc()
	}
	return c.JSON(res)
}
