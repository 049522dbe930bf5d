package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

func TestVoucherService_ListDiscounts_HasNextPage(t *testing.T) {
	var seenPages []int
	discounts := &mockDiscountRepository{
		listPublicFn: func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error) {
			seenPages = append(seenPages, q.Page)
			if q.Page == 1 {
				return []model.VoucherDiscount{{ID: 1}, {ID: 2}}, nil
			}
			return []model.VoucherDiscount{{ID: 3}}, nil
		},
	}

	svc := NewVoucherService(discounts, &mockQuestionRepository{})
	result, meta, err := svc.ListDiscounts(context.Background(), model.ListQuery{Page: 1, Limit: 2})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, meta.HasNextPage)
	assert.ElementsMatch(t, []int{1, 2}, seenPages, "current page and probe page should both be queried")
}

func TestVoucherService_ListDiscounts_DefaultsApplied(t *testing.T) {
	var captured model.ListQuery
	discounts := &mockDiscountRepository{
		listPublicFn: func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error) {
			if q.Page == 1 {
				captured = q
			}
			return []model.VoucherDiscount{}, nil
		},
	}

	svc := NewVoucherService(discounts, &mockQuestionRepository{})
	_, meta, err := svc.ListDiscounts(context.Background(), model.ListQuery{})

	require.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 10, captured.Limit)
	assert.False(t, meta.HasNextPage)
}

func TestVoucherService_ListDiscounts_RepositoryError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	discounts := &mockDiscountRepository{
		listPublicFn: func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error) {
			return nil, dbErr
		},
	}

	svc := NewVoucherService(discounts, &mockQuestionRepository{})
	_, _, err := svc.ListDiscounts(context.Background(), model.ListQuery{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
}

func TestVoucherService_GetCampaignDiscount_Success(t *testing.T) {
	discounts := &mockDiscountRepository{
		getByIDFn: func(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
			return &model.VoucherDiscount{ID: id, CampaignID: 1}, nil
		},
	}
	questions := &mockQuestionRepository{
		listActiveByDiscountFn: func(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error) {
			return []model.VoucherQuestion{{ID: 5, DiscountID: int64Ptr(discountID)}}, nil
		},
	}

	svc := NewVoucherService(discounts, questions)
	discount, err := svc.GetCampaignDiscount(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), discount.ID)
	require.Len(t, discount.Questions, 1)
}

func TestVoucherService_GetCampaignDiscount_WrongCampaign(t *testing.T) {
	discounts := &mockDiscountRepository{
		getByIDFn: func(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
			return &model.VoucherDiscount{ID: id, CampaignID: 2}, nil
		},
	}

	svc := NewVoucherService(discounts, &mockQuestionRepository{})
	_, err := svc.GetCampaignDiscount(context.Background(), 1, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscountNotFound), "a discount under another campaign should read as not found")
}

func TestVoucherService_GetCampaignDiscount_NotFound(t *testing.T) {
	svc := NewVoucherService(&mockDiscountRepository{}, &mockQuestionRepository{})

	_, err := svc.GetCampaignDiscount(context.Background(), 1, 404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscountNotFound))
}

func TestVoucherService_ListCampaignDiscounts(t *testing.T) {
	discounts := &mockDiscountRepository{
		listByCampaignFn: func(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error) {
			return []model.VoucherDiscount{{ID: 10, CampaignID: campaignID}, {ID: 11, CampaignID: campaignID}}, nil
		},
	}
	questions := &mockQuestionRepository{
		listActiveByDiscountFn: func(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error) {
			if discountID == 10 {
				return []model.VoucherQuestion{{ID: 5}}, nil
			}
			return []model.VoucherQuestion{}, nil
		},
	}

	svc := NewVoucherService(discounts, questions)
	result, err := svc.ListCampaignDiscounts(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Len(t, result[0].Questions, 1)
	assert.Empty(t, result[1].Questions)
}
