package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/internal/service"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// DiscountRepository provides data access for voucher discounts using pgx.
type DiscountRepository struct {
	pool database.TxQuerier
}

// NewDiscountRepository creates a new DiscountRepository with the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// NewDiscountRepositoryWithQuerier creates a DiscountRepository with a custom
// querier. This is primarily used for testing.
func NewDiscountRepositoryWithQuerier(q database.TxQuerier) *DiscountRepository {
	return &DiscountRepository{pool: q}
}

const discountColumns = `id, campaign_id, description, type, claim_type, code, code_type, discount, total, claimed, is_deleted, created_at`

func scanDiscount(row pgx.Row) (*model.VoucherDiscount, error) {
	var d model.VoucherDiscount
	err := row.Scan(
		&d.ID,
		&d.CampaignID,
		&d.Description,
		&d.Type,
		&d.ClaimType,
		&d.Code,
		&d.CodeType,
		&d.Discount,
		&d.Total,
		&d.Claimed,
		&d.IsDeleted,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Insert inserts a new discount row within a transaction, filling in the
// generated id and creation time. An empty code type defaults to CLAIM.
func (r *DiscountRepository) Insert(ctx context.Context, tx database.TxQuerier, d *model.VoucherDiscount) error {
	if d.CodeType == "" {
		d.CodeType = model.CodeTypeClaim
	}
	err := tx.QueryRow(ctx,
		`INSERT INTO voucher_discounts (campaign_id, description, type, claim_type, code, code_type, discount, total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		d.CampaignID, d.Description, d.Type, d.ClaimType, d.Code, d.CodeType, d.Discount, d.Total,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

// GetByID retrieves a discount by id through the given querier (pool or tx).
// Returns nil, nil if the discount is not found (service layer handles this).
func (r *DiscountRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
	if q == nil {
		q = r.pool
	}
	row := q.QueryRow(ctx, `SELECT `+discountColumns+` FROM voucher_discounts WHERE id = $1`, id)
	d, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount %d: %w", id, err)
	}
	return d, nil
}

// GetForUpdate retrieves a discount with a row lock (SELECT FOR UPDATE).
// The lock is held until the transaction completes, serializing concurrent
// claims for the same discount.
// Returns service.ErrDiscountNotFound if the discount doesn't exist.
func (r *DiscountRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.VoucherDiscount, error) {
	row := tx.QueryRow(ctx, `SELECT `+discountColumns+` FROM voucher_discounts WHERE id = $1 FOR UPDATE`, id)
	d, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("get discount for update %d: %w", id, err)
	}
	return d, nil
}

// IncrementClaimed bumps the claimed counter by one, guarded so the counter
// can never pass total even outside the row lock.
// Returns service.ErrNoStock when no stock remains.
func (r *DiscountRepository) IncrementClaimed(ctx context.Context, tx database.TxQuerier, id int64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE voucher_discounts SET claimed = claimed + 1 WHERE id = $1 AND claimed < total`, id)
	if err != nil {
		return fmt.Errorf("increment claimed for discount %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNoStock
	}
	return nil
}

// Update applies the non-nil fields of input to the discount row within a
// transaction. A request with no fields set is a no-op.
func (r *DiscountRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, input model.DiscountUpdateInput) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.Type != nil {
		add("type", *input.Type)
	}
	if input.ClaimType != nil {
		add("claim_type", *input.ClaimType)
	}
	if input.Code != nil {
		add("code", *input.Code)
	}
	if input.CodeType != nil {
		add("code_type", *input.CodeType)
	}
	if input.Discount != nil {
		add("discount", *input.Discount)
	}
	if input.Total != nil {
		add("total", *input.Total)
	}
	if input.IsDeleted != nil {
		add("is_deleted", *input.IsDeleted)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE voucher_discounts SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update discount %d: %w", id, err)
	}
	return nil
}

// ListByCampaign retrieves the non-deleted discounts of a campaign, oldest
// first.
func (r *DiscountRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]model.VoucherDiscount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+discountColumns+` FROM voucher_discounts
		 WHERE campaign_id = $1 AND is_deleted = FALSE
		 ORDER BY created_at ASC`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list discounts for campaign %d: %w", campaignID, err)
	}
	defer rows.Close()
	return collectDiscounts(rows)
}

// ListByCampaigns retrieves the non-deleted discounts of several campaigns in
// one round trip, oldest first.
func (r *DiscountRepository) ListByCampaigns(ctx context.Context, campaignIDs []int64) ([]model.VoucherDiscount, error) {
	if len(campaignIDs) == 0 {
		return []model.VoucherDiscount{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+discountColumns+` FROM voucher_discounts
		 WHERE campaign_id = ANY($1) AND is_deleted = FALSE
		 ORDER BY created_at ASC`, campaignIDs)
	if err != nil {
		return nil, fmt.Errorf("list discounts for campaigns: %w", err)
	}
	defer rows.Close()
	return collectDiscounts(rows)
}

// ListPublic retrieves non-deleted discounts of non-deleted campaigns,
// newest first, filtered by the campaign-level progress/company/search
// filters.
func (r *DiscountRepository) ListPublic(ctx context.Context, q model.ListQuery) ([]model.VoucherDiscount, error) {
	q = q.Normalize()

	where := []string{"d.is_deleted = FALSE", "c.is_deleted = FALSE"}
	var args []any
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if q.CompanyID > 0 {
		args = append(args, q.CompanyID)
		where = append(where, fmt.Sprintf("c.company_id = $%d", len(args)))
	}
	if p := progressFilter("c", q.Progress); p != "" {
		where = append(where, p)
	}
	args = append(args, q.Limit, q.Offset())

	query := fmt.Sprintf(`SELECT d.id, d.campaign_id, d.description, d.type, d.claim_type, d.code, d.code_type, d.discount, d.total, d.claimed, d.is_deleted, d.created_at
		FROM voucher_discounts d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE %s
		ORDER BY d.created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list public discounts: %w", err)
	}
	defer rows.Close()
	return collectDiscounts(rows)
}

// CountByCompany counts the non-deleted discounts owned by a company through
// its non-deleted campaigns.
func (r *DiscountRepository) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM voucher_discounts d
		 JOIN campaigns c ON c.id = d.campaign_id
		 WHERE d.is_deleted = FALSE AND c.is_deleted = FALSE AND c.company_id = $1`,
		companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count discounts for company %d: %w", companyID, err)
	}
	return count, nil
}

func collectDiscounts(rows pgx.Rows) ([]model.VoucherDiscount, error) {
	discounts := []model.VoucherDiscount{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		discounts = append(discounts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discounts: %w", err)
	}
	return discounts, nil
}
