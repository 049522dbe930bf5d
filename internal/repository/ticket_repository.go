package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/internal/service"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// TicketRepository provides data access for voucher tickets using pgx.
type TicketRepository struct {
	pool database.TxQuerier
}

// NewTicketRepository creates a new TicketRepository with the given pool.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// NewTicketRepositoryWithQuerier creates a TicketRepository with a custom
// querier. This is primarily used for testing.
func NewTicketRepositoryWithQuerier(q database.TxQuerier) *TicketRepository {
	return &TicketRepository{pool: q}
}

// Insert inserts a new ticket row within a transaction, filling in the
// generated id and claim time.
// Returns service.ErrAlreadyClaimed if the (discount, user) pair already
// holds a ticket; the unique constraint catches races the prior lookup
// cannot see.
func (r *TicketRepository) Insert(ctx context.Context, tx database.TxQuerier, t *model.VoucherTicket) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO voucher_tickets (discount_id, code, claim_by, owned_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, claim_at`,
		t.DiscountID, t.Code, t.ClaimBy, t.OwnedBy,
	).Scan(&t.ID, &t.ClaimAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrAlreadyClaimed
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// FindForUser retrieves the ticket a user holds for a discount, whether the
// user claimed it or was handed it. Returns nil, nil when the user holds no
// ticket.
func (r *TicketRepository) FindForUser(ctx context.Context, q database.TxQuerier, userID, discountID int64) (*model.VoucherTicket, error) {
	if q == nil {
		q = r.pool
	}
	var t model.VoucherTicket
	err := q.QueryRow(ctx,
		`SELECT id, discount_id, code, claim_by, owned_by, claim_at
		 FROM voucher_tickets
		 WHERE discount_id = $1 AND (claim_by = $2 OR owned_by = $2)
		 LIMIT 1`,
		discountID, userID,
	).Scan(&t.ID, &t.DiscountID, &t.Code, &t.ClaimBy, &t.OwnedBy, &t.ClaimAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket for user %d discount %d: %w", userID, discountID, err)
	}
	return &t, nil
}

// ListByUser retrieves the tickets claimed by or owned by a user, newest
// first, joined with their discount and campaign.
func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]model.UserTicket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.discount_id, t.code, t.claim_by, t.owned_by, t.claim_at,
		        d.id, d.campaign_id, d.description, d.type, d.claim_type, d.code, d.code_type, d.discount, d.total, d.claimed, d.is_deleted, d.created_at,
		        c.id, c.company_id, c.created_by, c.name, c.description, c.logo, c.claim_type, c.start_date, c.end_date, c.is_deleted, c.created_at
		 FROM voucher_tickets t
		 JOIN voucher_discounts d ON d.id = t.discount_id
		 JOIN campaigns c ON c.id = d.campaign_id
		 WHERE t.claim_by = $1 OR t.owned_by = $1
		 ORDER BY t.claim_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets for user %d: %w", userID, err)
	}
	defer rows.Close()

	tickets := []model.UserTicket{}
	for rows.Next() {
		var ut model.UserTicket
		err := rows.Scan(
			&ut.ID, &ut.DiscountID, &ut.Code, &ut.ClaimBy, &ut.OwnedBy, &ut.ClaimAt,
			&ut.Discount.ID, &ut.Discount.CampaignID, &ut.Discount.Description, &ut.Discount.Type,
			&ut.Discount.ClaimType, &ut.Discount.Code, &ut.Discount.CodeType, &ut.Discount.Discount,
			&ut.Discount.Total, &ut.Discount.Claimed, &ut.Discount.IsDeleted, &ut.Discount.CreatedAt,
			&ut.Campaign.ID, &ut.Campaign.CompanyID, &ut.Campaign.CreatedBy, &ut.Campaign.Name,
			&ut.Campaign.Description, &ut.Campaign.Logo, &ut.Campaign.ClaimType, &ut.Campaign.StartDate,
			&ut.Campaign.EndDate, &ut.Campaign.IsDeleted, &ut.Campaign.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user ticket: %w", err)
		}
		tickets = append(tickets, ut)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user tickets: %w", err)
	}
	return tickets, nil
}

// WeekdayCounts counts the tickets claimed for a discount per weekday within
// [from, to). Postgres DOW is 0=Sunday; the returned map is keyed by Go's
// time.Weekday.
func (r *TicketRepository) WeekdayCounts(ctx context.Context, discountID int64, from, to time.Time) (map[time.Weekday]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(DOW FROM claim_at)::int AS dow, COUNT(*)
		 FROM voucher_tickets
		 WHERE discount_id = $1 AND claim_at >= $2 AND claim_at < $3
		 GROUP BY dow`,
		discountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekday counts for discount %d: %w", discountID, err)
	}
	defer rows.Close()

	counts := make(map[time.Weekday]int)
	for rows.Next() {
		var dow, count int
		if err := rows.Scan(&dow, &count); err != nil {
			return nil, fmt.Errorf("scan weekday count: %w", err)
		}
		counts[time.Weekday(dow)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekday counts: %w", err)
	}
	return counts, nil
}

// CountByCompany counts all tickets issued for a company's discounts.
func (r *TicketRepository) CountByCompany(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM voucher_tickets t
		 JOIN voucher_discounts d ON d.id = t.discount_id
		 JOIN campaigns c ON c.id = d.campaign_id
		 WHERE c.company_id = $1`,
		companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tickets for company %d: %w", companyID, err)
	}
	return count, nil
}

// CountDistinctClaimers counts the distinct users holding tickets for a
// company's discounts.
func (r *TicketRepository) CountDistinctClaimers(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT t.claim_by) FROM voucher_tickets t
		 JOIN voucher_discounts d ON d.id = t.discount_id
		 JOIN campaigns c ON c.id = d.campaign_id
		 WHERE c.company_id = $1`,
		companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count distinct claimers for company %d: %w", companyID, err)
	}
	return count, nil
}
