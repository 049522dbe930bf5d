package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/internal/service"
)

// mockVoucherService is a mock implementation of VoucherServiceInterface.
type mockVoucherService struct {
	listDiscountsFn         func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, model.ListMeta, error)
	getCampaignDiscountFn   func(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error)
	listCampaignDiscountsFn func(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error)
}

func (m *mockVoucherService) ListDiscounts(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, model.ListMeta, error) {
	if m.listDiscountsFn != nil {
		return m.listDiscountsFn(ctx, q)
	}
	return []model.VoucherDiscount{}, model.ListMeta{}, nil
}

func (m *mockVoucherService) GetCampaignDiscount(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error) {
	if m.getCampaignDiscountFn != nil {
		return m.getCampaignDiscountFn(ctx, campaignID, discountID)
	}
	return &model.VoucherDiscount{ID: discountID, CampaignID: campaignID}, nil
}

func (m *mockVoucherService) ListCampaignDiscounts(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error) {
	if m.listCampaignDiscountsFn != nil {
		return m.listCampaignDiscountsFn(ctx, campaignID)
	}
	return []model.VoucherDiscount{}, nil
}

func setupVoucherTestApp(mockSvc *mockVoucherService) *fiber.App {
	app := fiber.New()
	h := NewVoucherHandler(mockSvc)
	app.Get("/api/vouchers", h.ListVouchers)
	app.Get("/api/campaigns/:id/discounts", h.ListCampaignDiscounts)
	app.Get("/api/campaigns/:id/discounts/:discountId", h.GetCampaignDiscount)
	return app
}

func TestListVouchers(t *testing.T) {
	mockSvc := &mockVoucherService{
		listDiscountsFn: func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, model.ListMeta, error) {
			assert.Equal(t, "pizza", q.Search)
			return []model.VoucherDiscount{{ID: 10}, {ID: 11}}, model.ListMeta{HasNextPage: false}, nil
		},
	}
	app := setupVoucherTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers?search=pizza", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Data []model.VoucherDiscount `json:"data"`
		Meta model.ListMeta          `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Data, 2)
	assert.False(t, result.Meta.HasNextPage)
}

func TestGetCampaignDiscount_NotFound(t *testing.T) {
	mockSvc := &mockVoucherService{
		getCampaignDiscountFn: func(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error) {
			return nil, service.ErrDiscountNotFound
		},
	}
	app := setupVoucherTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/1/discounts/404", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "voucher not found", result["error"])
}

func TestGetCampaignDiscount_Success(t *testing.T) {
	mockSvc := &mockVoucherService{
		getCampaignDiscountFn: func(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error) {
			return &model.VoucherDiscount{
				ID: discountID, CampaignID: campaignID,
				Questions: []model.VoucherQuestion{{ID: 5}},
			}, nil
		},
	}
	app := setupVoucherTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/1/discounts/10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var discount model.VoucherDiscount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&discount))
	assert.Equal(t, int64(10), discount.ID)
	require.Len(t, discount.Questions, 1)
}

func TestListCampaignDiscounts_InvalidID(t *testing.T) {
	app := setupVoucherTestApp(&mockVoucherService{})

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/abc/discounts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
