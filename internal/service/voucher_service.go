package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/voucherhub/voucher-platform/internal/model"
)

// VoucherService serves discount-centric reads: the public voucher listing
// and discount lookups scoped to a campaign.
type VoucherService struct {
	discounts DiscountRepositoryInterface
	questions QuestionRepositoryInterface
}

// NewVoucherService creates a VoucherService with the given repositories.
func NewVoucherService(discounts DiscountRepositoryInterface, questions QuestionRepositoryInterface) *VoucherService {
	return &VoucherService{discounts: discounts, questions: questions}
}

// ListDiscounts retrieves one page of publicly visible discounts, filtered by
// search term, campaign progress and company. The next page is probed
// concurrently to compute hasNextPage.
func (s *VoucherService) ListDiscounts(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, model.ListMeta, error) {
	q = q.Normalize()
	next := q
	next.Page++

	var current, probe []model.VoucherDiscount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.discounts.ListPublic(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		probe, err = s.discounts.ListPublic(gctx, next)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, model.ListMeta{}, err
	}
	return current, model.ListMeta{HasNextPage: len(probe) > 0}, nil
}

// GetCampaignDiscount retrieves one discount with its active questions,
// verifying it belongs to the given campaign. A discount that exists under a
// different campaign is reported as not found rather than leaked.
func (s *VoucherService) GetCampaignDiscount(ctx context.Context, campaignID, discountID int64) (*model.VoucherDiscount, error) {
	discount, err := s.discounts.GetByID(ctx, nil, discountID)
	if err != nil {
		return nil, err
	}
	if discount == nil || discount.CampaignID != campaignID {
		return nil, ErrDiscountNotFound
	}

	questions, err := s.questions.ListActiveByDiscount(ctx, nil, discountID)
	if err != nil {
		return nil, err
	}
	discount.Questions = questions
	return discount, nil
}

// ListCampaignDiscounts retrieves all non-deleted discounts of a campaign,
// oldest first, each with its active questions.
func (s *VoucherService) ListCampaignDiscounts(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error) {
	discounts, err := s.discounts.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	for i := range discounts {
		questions, err := s.questions.ListActiveByDiscount(ctx, nil, discounts[i].ID)
		if err != nil {
			return nil, err
		}
		discounts[i].Questions = questions
	}
	return discounts, nil
}
