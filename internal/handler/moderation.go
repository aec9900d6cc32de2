package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

type ModerationHandler struct {
	accounts service.AccountStore
	detector *service.BotDetector
}

func NewModerationHandler(accounts service.AccountStore, detector *service.BotDetector) *ModerationHandler {
	return &ModerationHandler{accounts: accounts, detector: detector}
}

type evaluateRequest struct {
	AccountID string `json:"accountId"`
}

// Evaluate handles POST /api/moderation/evaluate
// Scores an account for bot likelihood. Read-only: bulk moderation
// actions consume the recommendation elsewhere.
func (h *ModerationHandler) Evaluate(c fiber.Ctx) error {
	var req evaluateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	accountID, errMsg := middleware.ValidateAccountID(req.AccountID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	account, err := h.accounts.FindByID(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Account not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
	}

	assessment := h.detector.Assess(account)
	Metrics.BotAssessments.WithLabelValues(string(assessment.Recommendation)).Inc()
	return c.JSON(assessment)
}
