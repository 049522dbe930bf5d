package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// mockCampaignRepository is a mock implementation of CampaignRepositoryInterface.
type mockCampaignRepository struct {
	insertFn          func(ctx context.Context, tx database.TxQuerier, c *model.Campaign) error
	getByIDFn         func(ctx context.Context, q database.TxQuerier, id int64) (*model.Campaign, error)
	updateFn          func(ctx context.Context, tx database.TxQuerier, id int64, req model.CampaignUpdateFullRequest) error
	updateLogoFn      func(ctx context.Context, id int64, logo *string) error
	listFn            func(ctx context.Context, q model.ListQuery) ([]model.Campaign, error)
	countByProgressFn func(ctx context.Context, companyID int64, progress model.CampaignProgress) (int, error)
}

func (m *mockCampaignRepository) Insert(ctx context.Context, tx database.TxQuerier, c *model.Campaign) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, c)
	}
	return nil
}

func (m *mockCampaignRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.Campaign, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, q, id)
	}
	return nil, nil
}

func (m *mockCampaignRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, req model.CampaignUpdateFullRequest) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx, id, req)
	}
	return nil
}

func (m *mockCampaignRepository) UpdateLogo(ctx context.Context, id int64, logo *string) error {
	if m.updateLogoFn != nil {
		return m.updateLogoFn(ctx, id, logo)
	}
	return nil
}

func (m *mockCampaignRepository) List(ctx context.Context, q model.ListQuery) ([]model.Campaign, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return []model.Campaign{}, nil
}

func (m *mockCampaignRepository) CountByProgress(ctx context.Context, companyID int64, progress model.CampaignProgress) (int, error) {
	if m.countByProgressFn != nil {
		return m.countByProgressFn(ctx, companyID, progress)
	}
	return 0, nil
}

// mockDiscountRepository is a mock implementation of DiscountRepositoryInterface.
type mockDiscountRepository struct {
	insertFn           func(ctx context.Context, tx database.TxQuerier, d *model.VoucherDiscount) error
	getByIDFn          func(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error)
	getForUpdateFn     func(ctx context.Context, tx database.TxQuerier, id int64) (*model.VoucherDiscount, error)
	incrementClaimedFn func(ctx context.Context, tx database.TxQuerier, id int64) error
	updateFn           func(ctx context.Context, tx database.TxQuerier, id int64, input model.DiscountUpdateInput) error
	listByCampaignFn   func(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error)
	listByCampaignsFn  func(ctx context.Context, campaignIDs []int64) ([]model.VoucherDiscount, error)
	listPublicFn       func(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error)
	countByCompanyFn   func(ctx context.Context, companyID int64) (int, error)
}

func (m *mockDiscountRepository) Insert(ctx context.Context, tx database.TxQuerier, d *model.VoucherDiscount) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, d)
	}
	return nil
}

func (m *mockDiscountRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, q, id)
	}
	return nil, nil
}

func (m *mockDiscountRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrDiscountNotFound
}

func (m *mockDiscountRepository) IncrementClaimed(ctx context.Context, tx database.TxQuerier, id int64) error {
	if m.incrementClaimedFn != nil {
		return m.incrementClaimedFn(ctx, tx, id)
	}
	return nil
}

func (m *mockDiscountRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, input model.DiscountUpdateInput) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx, id, input)
	}
	return nil
}

func (m *mockDiscountRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error) {
	if m.listByCampaignFn != nil {
		return m.listByCampaignFn(ctx, campaignID)
	}
	return []model.VoucherDiscount{}, nil
}

func (m *mockDiscountRepository) ListByCampaigns(ctx context.Context, campaignIDs []int64) ([]model.VoucherDiscount, error) {
	if m.listByCampaignsFn != nil {
		return m.listByCampaignsFn(ctx, campaignIDs)
	}
	return []model.VoucherDiscount{}, nil
}

func (m *mockDiscountRepository) ListPublic(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error) {
	if m.listPublicFn != nil {
		return m.listPublicFn(ctx, q)
	}
	return []model.VoucherDiscount{}, nil
}

func (m *mockDiscountRepository) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	if m.countByCompanyFn != nil {
		return m.countByCompanyFn(ctx, companyID)
	}
	return 0, nil
}

// mockTicketRepository is a mock implementation of TicketRepositoryInterface.
type mockTicketRepository struct {
	insertFn                func(ctx context.Context, tx database.TxQuerier, t *model.VoucherTicket) error
	findForUserFn           func(ctx context.Context, q database.TxQuerier, userID, discountID int64) (*model.VoucherTicket, error)
	listByUserFn            func(ctx context.Context, userID int64) ([]model.UserTicket, error)
	weekdayCountsFn         func(ctx context.Context, discountID int64, from, to time.Time) (map[time.Weekday]int, error)
	countByCompanyFn        func(ctx context.Context, companyID int64) (int, error)
	countDistinctClaimersFn func(ctx context.Context, companyID int64) (int, error)
}

func (m *mockTicketRepository) Insert(ctx context.Context, tx database.TxQuerier, t *model.VoucherTicket) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, t)
	}
	return nil
}

func (m *mockTicketRepository) FindForUser(ctx context.Context, q database.TxQuerier, userID, discountID int64) (*model.VoucherTicket, error) {
	if m.findForUserFn != nil {
		return m.findForUserFn(ctx, q, userID, discountID)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListByUser(ctx context.Context, userID int64) ([]model.UserTicket, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.UserTicket{}, nil
}

func (m *mockTicketRepository) WeekdayCounts(ctx context.Context, discountID int64, from, to time.Time) (map[time.Weekday]int, error) {
	if m.weekdayCountsFn != nil {
		return m.weekdayCountsFn(ctx, discountID, from, to)
	}
	return map[time.Weekday]int{}, nil
}

func (m *mockTicketRepository) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	if m.countByCompanyFn != nil {
		return m.countByCompanyFn(ctx, companyID)
	}
	return 0, nil
}

func (m *mockTicketRepository) CountDistinctClaimers(ctx context.Context, companyID int64) (int, error) {
	if m.countDistinctClaimersFn != nil {
		return m.countDistinctClaimersFn(ctx, companyID)
	}
	return 0, nil
}

// mockQuestionRepository is a mock implementation of QuestionRepositoryInterface.
type mockQuestionRepository struct {
	insertFn               func(ctx context.Context, tx database.TxQuerier, q *model.VoucherQuestion) error
	insertChoiceFn         func(ctx context.Context, tx database.TxQuerier, c *model.VoucherQuestionChoice) error
	getByIDFn              func(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherQuestion, error)
	listActiveByDiscountFn func(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error)
	listActiveByCampaignFn func(ctx context.Context, q database.TxQuerier, campaignID int64) ([]model.VoucherQuestion, error)
	updateFn               func(ctx context.Context, tx database.TxQuerier, id int64, input model.QuestionUpdateInput) error
	updateChoiceFn         func(ctx context.Context, tx database.TxQuerier, id int64, input model.ChoiceUpdateInput) error
	insertAnswersFn        func(ctx context.Context, tx database.TxQuerier, answers []model.ClaimAnswer) error
	choiceTalliesFn        func(ctx context.Context, discountID int64, from, to time.Time) ([]model.ChoiceTally, error)
}

func (m *mockQuestionRepository) Insert(ctx context.Context, tx database.TxQuerier, q *model.VoucherQuestion) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, q)
	}
	return nil
}

func (m *mockQuestionRepository) InsertChoice(ctx context.Context, tx database.TxQuerier, c *model.VoucherQuestionChoice) error {
	if m.insertChoiceFn != nil {
		return m.insertChoiceFn(ctx, tx, c)
	}
	return nil
}

func (m *mockQuestionRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherQuestion, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, q, id)
	}
	return nil, nil
}

func (m *mockQuestionRepository) ListActiveByDiscount(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error) {
	if m.listActiveByDiscountFn != nil {
		return m.listActiveByDiscountFn(ctx, q, discountID)
	}
	return []model.VoucherQuestion{}, nil
}

func (m *mockQuestionRepository) ListActiveByCampaign(ctx context.Context, q database.TxQuerier, campaignID int64) ([]model.VoucherQuestion, error) {
	if m.listActiveByCampaignFn != nil {
		return m.listActiveByCampaignFn(ctx, q, campaignID)
	}
	return []model.VoucherQuestion{}, nil
}

func (m *mockQuestionRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, input model.QuestionUpdateInput) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx, id, input)
	}
	return nil
}

func (m *mockQuestionRepository) UpdateChoice(ctx context.Context, tx database.TxQuerier, id int64, input model.ChoiceUpdateInput) error {
	if m.updateChoiceFn != nil {
		return m.updateChoiceFn(ctx, tx, id, input)
	}
	return nil
}

func (m *mockQuestionRepository) InsertAnswers(ctx context.Context, tx database.TxQuerier, answers []model.ClaimAnswer) error {
	if m.insertAnswersFn != nil {
		return m.insertAnswersFn(ctx, tx, answers)
	}
	return nil
}

func (m *mockQuestionRepository) ChoiceTallies(ctx context.Context, discountID int64, from, to time.Time) ([]model.ChoiceTally, error) {
	if m.choiceTalliesFn != nil {
		return m.choiceTalliesFn(ctx, discountID, from, to)
	}
	return []model.ChoiceTally{}, nil
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func int64Ptr(i int64) *int64 {
	return &i
}

func claimTypePtr(ct model.ClaimType) *model.ClaimType {
	return &ct
}
