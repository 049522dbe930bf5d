package handler

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/voucherhub/voucher-platform/internal/auth"
	"github.com/voucherhub/voucher-platform/internal/model"
)

// ClaimServiceInterface defines the interface for claim business logic.
type ClaimServiceInterface interface {
	ClaimVoucher(ctx context.Context, userID, discountID int64, answers []model.QuestionAnswerInput) (*model.VoucherTicket, error)
	CanClaim(ctx context.Context, userID, discountID int64) (bool, error)
	ListUserTickets(ctx context.Context, userID int64) ([]model.UserTicket, error)
}

// ClaimHandler handles HTTP requests for claim operations.
type ClaimHandler struct {
	service   ClaimServiceInterface
	validator *validator.Validate
}

// NewClaimHandler creates a new ClaimHandler with the given service and validator.
func NewClaimHandler(svc ClaimServiceInterface, v *validator.Validate) *ClaimHandler {
	return &ClaimHandler{service: svc, validator: v}
}

// ClaimVoucher handles POST /api/campaigns/:id/discounts/:discountId/claim.
// The body is optional; when present it carries the question answers. An
// absent questionAnswers field and an empty array are distinct, so the raw
// body decides whether answers were submitted at all.
func (h *ClaimHandler) ClaimVoucher(c *fiber.Ctx) error {
	payload, ok := auth.PayloadFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}
	discountID, err := paramID(c, "discountId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid voucher id"})
	}

	var req model.ClaimRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := h.validator.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
		}
	}

	ticket, err := h.service.ClaimVoucher(c.Context(), payload.ID, discountID, req.QuestionAnswers)
	if err != nil {
		if status, msg, ok := businessStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int64("user_id", payload.ID).
			Int64("discount_id", discountID).
			Msg("failed to claim voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Int64("user_id", payload.ID).
		Int64("discount_id", discountID).
		Int64("ticket_id", ticket.ID).
		Msg("voucher claimed successfully")

	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// CanClaim handles GET /api/user-claim/can-claim?discountId= requests.
func (h *ClaimHandler) CanClaim(c *fiber.Ctx) error {
	payload, ok := auth.PayloadFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}
	discountID, err := strconv.ParseInt(c.Query("discountId"), 10, 64)
	if err != nil || discountID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: discountId is required"})
	}

	canClaim, err := h.service.CanClaim(c.Context(), payload.ID, discountID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", payload.ID).Int64("discount_id", discountID).Msg("failed to check claim eligibility")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"canClaim": canClaim})
}

// ListUserTickets handles GET /api/user-claim and GET /api/vouchers/me,
// returning the authenticated user's tickets newest first.
func (h *ClaimHandler) ListUserTickets(c *fiber.Ctx) error {
	payload, ok := auth.PayloadFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	tickets, err := h.service.ListUserTickets(c.Context(), payload.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", payload.ID).Msg("failed to list user tickets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"data": tickets})
}
