package handler

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voucherhub/voucher-platform/internal/auth"
	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/internal/service"
	"github.com/voucherhub/voucher-platform/internal/storage"
)

// logoPath is the blob store prefix for campaign logos.
const logoPath = "logos"

// CampaignServiceInterface defines the interface for campaign business logic.
type CampaignServiceInterface interface {
	CreateFull(ctx context.Context, companyID, createdBy int64, req *model.CampaignCreateRequest) (*model.Campaign, error)
	UpdateFull(ctx context.Context, campaignID, userCompanyID int64, req *model.CampaignUpdateFullRequest) error
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	List(ctx context.Context, q model.ListQuery) ([]model.Campaign, model.ListMeta, error)
	UpdateLogo(ctx context.Context, campaignID, userCompanyID int64, logo *string) (*model.Campaign, error)
}

// CampaignHandler handles HTTP requests for campaign operations.
type CampaignHandler struct {
	service   CampaignServiceInterface
	validator *validator.Validate
	store     storage.Store
}

// NewCampaignHandler creates a new CampaignHandler with the given service,
// validator and blob store.
func NewCampaignHandler(svc CampaignServiceInterface, v *validator.Validate, store storage.Store) *CampaignHandler {
	return &CampaignHandler{service: svc, validator: v, store: store}
}

// CreateCampaign handles POST /api/campaigns requests to create a campaign
// with its discounts and questions as one unit.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	payload, companyID, err := companyFromCtx(c)
	if err != nil {
		return err
	}

	var req model.CampaignCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	campaign, err := h.service.CreateFull(c.Context(), companyID, payload.ID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Int64("company_id", companyID).
			Str("campaign_name", req.Name).
			Msg("failed to create campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Int64("campaign_id", campaign.ID).
		Int64("company_id", companyID).
		Int("discounts", len(campaign.Discounts)).
		Msg("campaign created")

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// UpdateCampaignFull handles PATCH /api/campaigns/:id/full requests to update
// a campaign together with its nested discounts and questions.
func (h *CampaignHandler) UpdateCampaignFull(c *fiber.Ctx) error {
	_, companyID, err := companyFromCtx(c)
	if err != nil {
		return err
	}
	campaignID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}

	var req model.CampaignUpdateFullRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.UpdateFull(c.Context(), campaignID, companyID, &req); err != nil {
		if status, msg, ok := businessStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Int64("campaign_id", campaignID).
			Int64("company_id", companyID).
			Msg("failed to update campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).Send(nil)
}

// ListCampaigns handles GET /api/campaigns requests.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, meta, err := h.service.List(c.Context(), listQueryFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list campaigns")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"data": campaigns, "meta": meta})
}

// GetCampaign handles GET /api/campaigns/:id requests, returning the campaign
// with its discounts and questions.
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	campaignID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}

	campaign, err := h.service.GetByID(c.Context(), campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "campaign not found"})
		}
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to get campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(campaign)
}

// UploadLogo handles PATCH /api/campaigns/:id/logo multipart requests. The
// file lands in the blob store under a fresh uuid name; only the name is kept
// on the campaign row.
func (h *CampaignHandler) UploadLogo(c *fiber.Ctx) error {
	_, companyID, err := companyFromCtx(c)
	if err != nil {
		return err
	}
	campaignID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "logo file is required"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid logo file"})
	}
	defer src.Close()
	body, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid logo file"})
	}

	fileName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	if err := h.store.Upload(c.Context(), body, fileName, logoPath); err != nil {
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to store logo")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	campaign, err := h.service.UpdateLogo(c.Context(), campaignID, companyID, &fileName)
	if err != nil {
		// The row update failed, drop the orphaned blob.
		_ = h.store.Delete(c.Context(), fileName, logoPath)
		if status, msg, ok := businessStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to update campaign logo")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(campaign)
}

// companyFromCtx extracts the authenticated payload and its company id. The
// role middleware runs first, so a missing company id is a data problem, not
// an auth one.
func companyFromCtx(c *fiber.Ctx) (auth.UserPayload, int64, error) {
	payload, ok := auth.PayloadFromCtx(c)
	if !ok {
		return auth.UserPayload{}, 0, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}
	if payload.CompanyID == nil {
		return auth.UserPayload{}, 0, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account has no company"})
	}
	return payload, *payload.CompanyID, nil
}

// paramID parses a positive int64 route parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// listQueryFromCtx reads the shared pagination and filter query parameters.
func listQueryFromCtx(c *fiber.Ctx) model.ListQuery {
	q := model.ListQuery{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		Search:   c.Query("search"),
		Progress: model.CampaignProgress(c.Query("progress")),
	}
	if companyID, err := strconv.ParseInt(c.Query("companyId"), 10, 64); err == nil {
		q.CompanyID = companyID
	}
	return q
}
