package service

import (
	"context"
	"time"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// CampaignRepositoryInterface defines the interface for campaign data access.
type CampaignRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, c *model.Campaign) error
	GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.Campaign, error)
	Update(ctx context.Context, tx database.TxQuerier, id int64, req model.CampaignUpdateFullRequest) error
	UpdateLogo(ctx context.Context, id int64, logo *string) error
	List(ctx context.Context, q model.ListQuery) ([]model.Campaign, error)
	CountByProgress(ctx context.Context, companyID int64, progress model.CampaignProgress) (int, error)
}

// DiscountRepositoryInterface defines the interface for discount data access.
type DiscountRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, d *model.VoucherDiscount) error
	GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.VoucherDiscount, error)
	IncrementClaimed(ctx context.Context, tx database.TxQuerier, id int64) error
	Update(ctx context.Context, tx database.TxQuerier, id int64, input model.DiscountUpdateInput) error
	ListByCampaign(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error)
	ListByCampaigns(ctx context.Context, campaignIDs []int64) ([]model.VoucherDiscount, error)
	ListPublic(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error)
	CountByCompany(ctx context.Context, companyID int64) (int, error)
}

// TicketRepositoryInterface defines the interface for ticket data access.
type TicketRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, t *model.VoucherTicket) error
	FindForUser(ctx context.Context, q database.TxQuerier, userID, discountID int64) (*model.VoucherTicket, error)
	ListByUser(ctx context.Context, userID int64) ([]model.UserTicket, error)
	WeekdayCounts(ctx context.Context, discountID int64, from, to time.Time) (map[time.Weekday]int, error)
	CountByCompany(ctx context.Context, companyID int64) (int, error)
	CountDistinctClaimers(ctx context.Context, companyID int64) (int, error)
}

// QuestionRepositoryInterface defines the interface for question, choice and
// claim answer data access.
type QuestionRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, q *model.VoucherQuestion) error
	InsertChoice(ctx context.Context, tx database.TxQuerier, c *model.VoucherQuestionChoice) error
	GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherQuestion, error)
	ListActiveByDiscount(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error)
	ListActiveByCampaign(ctx context.Context, q database.TxQuerier, campaignID int64) ([]model.VoucherQuestion, error)
	Update(ctx context.Context, tx database.TxQuerier, id int64, input model.QuestionUpdateInput) error
	UpdateChoice(ctx context.Context, tx database.TxQuerier, id int64, input model.ChoiceUpdateInput) error
	InsertAnswers(ctx context.Context, tx database.TxQuerier, answers []model.ClaimAnswer) error
	ChoiceTallies(ctx context.Context, discountID int64, from, to time.Time) ([]model.ChoiceTally, error)
}
