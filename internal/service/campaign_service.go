package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// CampaignService writes campaign aggregates (campaign + discounts +
// questions) as one unit and serves campaign reads.
type CampaignService struct {
	pool      database.TxBeginner
	campaigns CampaignRepositoryInterface
	discounts DiscountRepositoryInterface
	questions QuestionRepositoryInterface
}

// NewCampaignService creates a CampaignService with the given pool and
// repositories.
func NewCampaignService(
	pool database.TxBeginner,
	campaigns CampaignRepositoryInterface,
	discounts DiscountRepositoryInterface,
	questions QuestionRepositoryInterface,
) *CampaignService {
	return &CampaignService{
		pool:      pool,
		campaigns: campaigns,
		discounts: discounts,
		questions: questions,
	}
}

// CreateFull inserts a campaign together with its discounts and questions in
// one transaction. Partial failure leaves no orphaned campaign.
func (s *CampaignService) CreateFull(ctx context.Context, companyID, createdBy int64, req *model.CampaignCreateRequest) (*model.Campaign, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	campaign := &model.Campaign{
		CompanyID:   companyID,
		CreatedBy:   createdBy,
		Name:        req.Name,
		Description: req.Description,
		ClaimType:   req.ClaimType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	err := database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.campaigns.Insert(ctx, tx, campaign); err != nil {
			return err
		}

		for _, qInput := range req.Questions {
			question := newQuestion(qInput)
			question.CampaignID = &campaign.ID
			if err := s.questions.Insert(ctx, tx, &question); err != nil {
				return err
			}
			campaign.Questions = append(campaign.Questions, question)
		}

		for _, dInput := range req.Discounts {
			discount := model.VoucherDiscount{
				CampaignID:  campaign.ID,
				Description: dInput.Description,
				Type:        dInput.Type,
				ClaimType:   dInput.ClaimType,
				Code:        dInput.Code,
				CodeType:    dInput.CodeType,
				Discount:    dInput.Discount,
				Total:       dInput.Total,
			}
			if err := s.discounts.Insert(ctx, tx, &discount); err != nil {
				return err
			}
			for _, qInput := range dInput.Questions {
				question := newQuestion(qInput)
				question.DiscountID = &discount.ID
				if err := s.questions.Insert(ctx, tx, &question); err != nil {
					return err
				}
				discount.Questions = append(discount.Questions, question)
			}
			campaign.Discounts = append(campaign.Discounts, discount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// UpdateFull updates a campaign and its nested discounts/questions in one
// transaction. Nested items with an id are updated in place, items without
// one are created under the campaign. Every touched item is authorized
// against the requesting user's company; a cross-tenant attempt fails the
// whole update with ErrForbidden.
func (s *CampaignService) UpdateFull(ctx context.Context, campaignID, userCompanyID int64, req *model.CampaignUpdateFullRequest) error {
	if req == nil {
		return ErrInvalidRequest
	}

	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		campaign, err := s.campaigns.GetByID(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if campaign.CompanyID != userCompanyID {
			return ErrForbidden
		}

		if err := s.campaigns.Update(ctx, tx, campaignID, *req); err != nil {
			return err
		}

		for _, qInput := range req.Questions {
			if err := s.applyQuestionUpdate(ctx, tx, campaignID, userCompanyID, qInput); err != nil {
				return err
			}
		}

		for _, dInput := range req.Discounts {
			if err := s.applyDiscountUpdate(ctx, tx, campaignID, userCompanyID, dInput); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyQuestionUpdate updates an existing question after checking its owner's
// company, or creates a new campaign-level question.
func (s *CampaignService) applyQuestionUpdate(ctx context.Context, tx pgx.Tx, campaignID, userCompanyID int64, input model.QuestionUpdateInput) error {
	if input.ID == nil {
		question := model.VoucherQuestion{CampaignID: &campaignID}
		if input.Question != nil {
			question.Question = *input.Question
		}
		if input.Type != nil {
			question.Type = *input.Type
		}
		for _, c := range input.Choices {
			choice := model.VoucherQuestionChoice{}
			if c.Choice != nil {
				choice.Choice = *c.Choice
			}
			if c.IsCorrect != nil {
				choice.IsCorrect = *c.IsCorrect
			}
			question.Choices = append(question.Choices, choice)
		}
		return s.questions.Insert(ctx, tx, &question)
	}

	question, err := s.questions.GetByID(ctx, tx, *input.ID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	if err := s.authorizeQuestion(ctx, tx, question, userCompanyID); err != nil {
		return err
	}
	return s.questions.Update(ctx, tx, *input.ID, input)
}

// authorizeQuestion resolves a question's owning company through its campaign
// or discount and compares it against the requesting company.
func (s *CampaignService) authorizeQuestion(ctx context.Context, tx pgx.Tx, question *model.VoucherQuestion, userCompanyID int64) error {
	var ownerCampaignID int64
	switch {
	case question.CampaignID != nil:
		ownerCampaignID = *question.CampaignID
	case question.DiscountID != nil:
		discount, err := s.discounts.GetByID(ctx, tx, *question.DiscountID)
		if err != nil {
			return err
		}
		if discount == nil {
			return ErrDiscountNotFound
		}
		ownerCampaignID = discount.CampaignID
	default:
		return fmt.Errorf("question %d has no owner", question.ID)
	}

	owner, err := s.campaigns.GetByID(ctx, tx, ownerCampaignID)
	if err != nil {
		return err
	}
	if owner == nil {
		return ErrCampaignNotFound
	}
	if owner.CompanyID != userCompanyID {
		return ErrForbidden
	}
	return nil
}

// applyDiscountUpdate updates an existing discount (with nested question
// updates) after checking its campaign's company, or creates a new discount
// under the campaign.
func (s *CampaignService) applyDiscountUpdate(ctx context.Context, tx pgx.Tx, campaignID, userCompanyID int64, input model.DiscountUpdateInput) error {
	if input.ID == nil {
		discount := model.VoucherDiscount{CampaignID: campaignID}
		if input.Description != nil {
			discount.Description = input.Description
		}
		if input.Type != nil {
			discount.Type = *input.Type
		}
		discount.ClaimType = input.ClaimType
		discount.Code = input.Code
		if input.CodeType != nil {
			discount.CodeType = *input.CodeType
		}
		if input.Discount != nil {
			discount.Discount = *input.Discount
		}
		if input.Total != nil {
			discount.Total = *input.Total
		}
		if err := s.discounts.Insert(ctx, tx, &discount); err != nil {
			return err
		}
		for _, qInput := range input.Questions {
			question := model.VoucherQuestion{DiscountID: &discount.ID}
			if qInput.Question != nil {
				question.Question = *qInput.Question
			}
			if qInput.Type != nil {
				question.Type = *qInput.Type
			}
			for _, c := range qInput.Choices {
				choice := model.VoucherQuestionChoice{}
				if c.Choice != nil {
					choice.Choice = *c.Choice
				}
				if c.IsCorrect != nil {
					choice.IsCorrect = *c.IsCorrect
				}
				question.Choices = append(question.Choices, choice)
			}
			if err := s.questions.Insert(ctx, tx, &question); err != nil {
				return err
			}
		}
		return nil
	}

	discount, err := s.discounts.GetByID(ctx, tx, *input.ID)
	if err != nil {
		return err
	}
	if discount == nil {
		return ErrDiscountNotFound
	}
	owner, err := s.campaigns.GetByID(ctx, tx, discount.CampaignID)
	if err != nil {
		return err
	}
	if owner == nil {
		return ErrCampaignNotFound
	}
	if owner.CompanyID != userCompanyID {
		return ErrForbidden
	}

	if err := s.discounts.Update(ctx, tx, *input.ID, input); err != nil {
		return err
	}
	for _, qInput := range input.Questions {
		if err := s.applyQuestionUpdate(ctx, tx, campaignID, userCompanyID, qInput); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a campaign with its non-deleted discounts, questions and
// choices. Returns ErrCampaignNotFound if the campaign doesn't exist.
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	discounts, err := s.discounts.ListByCampaign(ctx, id)
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
	campaign.Discounts = discounts

	questions, err := s.questions.ListActiveByCampaign(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	campaign.Questions = questions

	return campaign, nil
}

// List retrieves one page of campaigns with their discounts attached. The
// next page is probed concurrently to compute hasNextPage, mirroring the
// listing behavior of the public API.
func (s *CampaignService) List(ctx context.Context, q model.ListQuery) ([]model.Campaign, model.ListMeta, error) {
	q = q.Normalize()
	next := q
	next.Page++

	var current, probe []model.Campaign
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.campaigns.List(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		probe, err = s.campaigns.List(gctx, next)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, model.ListMeta{}, err
	}

	ids := make([]int64, len(current))
	for i, c := range current {
		ids[i] = c.ID
	}
	discounts, err := s.discounts.ListByCampaigns(ctx, ids)
	if err != nil {
		return nil, model.ListMeta{}, err
	}
	byCampaign := make(map[int64][]model.VoucherDiscount)
	for _, d := range discounts {
		byCampaign[d.CampaignID] = append(byCampaign[d.CampaignID], d)
	}
	for i := range current {
		current[i].Discounts = byCampaign[current[i].ID]
	}

	return current, model.ListMeta{HasNextPage: len(probe) > 0}, nil
}

// UpdateLogo stores the campaign's logo file name after checking tenant
// ownership.
func (s *CampaignService) UpdateLogo(ctx context.Context, campaignID, userCompanyID int64, logo *string) (*model.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, nil, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.CompanyID != userCompanyID {
		return nil, ErrForbidden
	}
	if err := s.campaigns.UpdateLogo(ctx, campaignID, logo); err != nil {
		return nil, err
	}
	campaign.Logo = logo
	return campaign, nil
}

// newQuestion converts a create input into a question entity with nested
// choices.
func newQuestion(input model.QuestionCreateInput) model.VoucherQuestion {
	question := model.VoucherQuestion{
		Question: input.Question,
		Type:     input.Type,
	}
	for _, c := range input.Choices {
		question.Choices = append(question.Choices, model.VoucherQuestionChoice{
			Choice:    c.Choice,
			IsCorrect: c.IsCorrect,
		})
	}
	return question
}
