package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/voucherhub/voucher-platform/internal/model"
)

// StatsServiceInterface defines the interface for company statistics.
type StatsServiceInterface interface {
	WeeklyClaimStats(ctx context.Context, userCompanyID, discountID int64, ref time.Time) (*model.WeeklyClaimStats, error)
	CompanyDashboard(ctx context.Context, companyID int64) (*model.DashboardStats, error)
}

// StatsHandler handles HTTP requests for the company dashboard.
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler with the given service.
func NewStatsHandler(svc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Dashboard handles GET /api/dashboard/stats requests.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	_, companyID, err := companyFromCtx(c)
	if err != nil {
		return err
	}

	stats, err := h.service.CompanyDashboard(c.Context(), companyID)
	if err != nil {
		log.Error().Err(err).Int64("company_id", companyID).Msg("failed to build dashboard stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}

// WeeklyStats handles GET /api/dashboard/discounts/:discountId/weekly
// requests. An optional date query parameter (YYYY-MM-DD) picks the week;
// it defaults to the current one.
func (h *StatsHandler) WeeklyStats(c *fiber.Ctx) error {
	_, companyID, err := companyFromCtx(c)
	if err != nil {
		return err
	}
	discountID, err := paramID(c, "discountId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid voucher id"})
	}

	var ref time.Time
	if raw := c.Query("date"); raw != "" {
		ref, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: date must be YYYY-MM-DD"})
		}
	}

	stats, err := h.service.WeeklyClaimStats(c.Context(), companyID, discountID, ref)
	if err != nil {
		if status, msg, ok := businessStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		log.Error().Err(err).Int64("company_id", companyID).Int64("discount_id", discountID).Msg("failed to build weekly stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}
