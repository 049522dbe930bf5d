package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// CampaignRepository provides data access for campaigns using pgx.
type CampaignRepository struct {
	pool database.TxQuerier
}

// NewCampaignRepository creates a new CampaignRepository with the given pool.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// NewCampaignRepositoryWithQuerier creates a CampaignRepository with a custom
// querier. This is primarily used for testing.
func NewCampaignRepositoryWithQuerier(q database.TxQuerier) *CampaignRepository {
	return &CampaignRepository{pool: q}
}

const campaignColumns = `id, company_id, created_by, name, description, logo, claim_type, start_date, end_date, is_deleted, created_at`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.CreatedBy,
		&c.Name,
		&c.Description,
		&c.Logo,
		&c.ClaimType,
		&c.StartDate,
		&c.EndDate,
		&c.IsDeleted,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new campaign row within a transaction, filling in the
// generated id and creation time.
func (r *CampaignRepository) Insert(ctx context.Context, tx database.TxQuerier, c *model.Campaign) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO campaigns (company_id, created_by, name, description, logo, claim_type, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		c.CompanyID, c.CreatedBy, c.Name, c.Description, c.Logo, c.ClaimType, c.StartDate, c.EndDate,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by id through the given querier (pool or tx).
// Returns nil, nil if the campaign is not found (service layer handles this).
func (r *CampaignRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.Campaign, error) {
	if q == nil {
		q = r.pool
	}
	row := q.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign %d: %w", id, err)
	}
	return c, nil
}

// Update applies the non-nil fields of req to the campaign row within a
// transaction. A request with no fields set is a no-op.
func (r *CampaignRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, req model.CampaignUpdateFullRequest) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.ClaimType != nil {
		add("claim_type", *req.ClaimType)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if req.IsDeleted != nil {
		add("is_deleted", *req.IsDeleted)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update campaign %d: %w", id, err)
	}
	return nil
}

// UpdateLogo sets the campaign's logo file name.
func (r *CampaignRepository) UpdateLogo(ctx context.Context, id int64, logo *string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE campaigns SET logo = $1 WHERE id = $2`, logo, id); err != nil {
		return fmt.Errorf("update campaign logo %d: %w", id, err)
	}
	return nil
}

// progressFilter returns a SQL predicate for the campaign progress bucket.
// The returned clause references campaigns columns via the given alias and
// compares against NOW().
func progressFilter(alias string, progress model.CampaignProgress) string {
	switch progress {
	case model.ProgressOngoing:
		return fmt.Sprintf("%s.start_date < NOW() AND %s.end_date > NOW()", alias, alias)
	case model.ProgressFinished:
		return fmt.Sprintf("%s.end_date < NOW()", alias)
	case model.ProgressUpcoming:
		return fmt.Sprintf("%s.start_date > NOW()", alias)
	default:
		return ""
	}
}

// List retrieves non-deleted campaigns newest first, filtered by progress
// bucket, company and name search, with offset/limit pagination.
func (r *CampaignRepository) List(ctx context.Context, q model.ListQuery) ([]model.Campaign, error) {
	q = q.Normalize()

	where := []string{"c.is_deleted = FALSE"}
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

	query := fmt.Sprintf(`SELECT c.id, c.company_id, c.created_by, c.name, c.description, c.logo, c.claim_type, c.start_date, c.end_date, c.is_deleted, c.created_at
		FROM campaigns c
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

// CountByProgress counts a company's non-deleted campaigns in the given
// progress bucket as of now.
func (r *CampaignRepository) CountByProgress(ctx context.Context, companyID int64, progress model.CampaignProgress) (int, error) {
	query := `SELECT COUNT(*) FROM campaigns c WHERE c.is_deleted = FALSE AND c.company_id = $1`
	if p := progressFilter("c", progress); p != "" {
		query += " AND " + p
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count campaigns by progress %s: %w", progress, err)
	}
	return count, nil
}
