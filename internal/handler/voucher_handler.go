package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/internal/service"
)

// VoucherServiceInterface defines the interface for voucher read logic.
type VoucherServiceInterface interface {
	ListDiscounts(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, model.ListMeta, error)
	GetCampaignDiscount(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error)
	ListCampaignDiscounts(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error)
}

// VoucherHandler handles HTTP requests for voucher reads.
type VoucherHandler struct {
	service VoucherServiceInterface
}

// NewVoucherHandler creates a new VoucherHandler with the given service.
func NewVoucherHandler(svc VoucherServiceInterface) *VoucherHandler {
	return &VoucherHandler{service: svc}
}

// ListVouchers handles GET /api/vouchers, the public voucher listing with
// search, progress and company filters.
func (h *VoucherHandler) ListVouchers(c *fiber.Ctx) error {
	vouchers, meta, err := h.service.ListDiscounts(c.Context(), listQueryFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list vouchers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"data": vouchers, "meta": meta})
}

// ListCampaignDiscounts handles GET /api/campaigns/:id/discounts.
func (h *VoucherHandler) ListCampaignDiscounts(c *fiber.Ctx) error {
	campaignID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}

	discounts, err := h.service.ListCampaignDiscounts(c.Context(), campaignID)
	if err != nil {
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to list campaign discounts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"data": discounts})
}

// GetCampaignDiscount handles GET /api/campaigns/:id/discounts/:discountId.
func (h *VoucherHandler) GetCampaignDiscount(c *fiber.Ctx) error {
	campaignID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}
	discountID, err := paramID(c, "discountId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid voucher id"})
	}

	discount, err := h.service.GetCampaignDiscount(c.Context(), campaignID, discountID)
	if err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		}
		log.Error().Err(err).Int64("campaign_id", campaignID).Int64("discount_id", discountID).Msg("failed to get discount")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(discount)
}
