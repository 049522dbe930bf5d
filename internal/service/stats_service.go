package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voucherhub/voucher-platform/internal/model"
)

// weekdayOrder is the Monday-first display order for weekly stats.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// StatsService aggregates claim activity for company dashboards.
type StatsService struct {
	campaigns CampaignRepositoryInterface
	discounts DiscountRepositoryInterface
	tickets   TicketRepositoryInterface
	questions QuestionRepositoryInterface
	now       func() time.Time
}

// NewStatsService creates a StatsService with the given repositories.
func NewStatsService(
	campaigns CampaignRepositoryInterface,
	discounts DiscountRepositoryInterface,
	tickets TicketRepositoryInterface,
	questions QuestionRepositoryInterface,
) *StatsService {
	return &StatsService{
		campaigns: campaigns,
		discounts: discounts,
		tickets:   tickets,
		questions: questions,
		now:       time.Now,
	}
}

// WeeklyClaimStats aggregates a discount's claims over the week containing
// ref (Monday through Sunday): claims per weekday, remaining stock, and the
// per-choice answer tallies when the discount requires questions. The
// discount must belong to the requesting user's company.
func (s *StatsService) WeeklyClaimStats(ctx context.Context, userCompanyID, discountID int64, ref time.Time) (*model.WeeklyClaimStats, error) {
	discount, err := s.discounts.GetByID(ctx, nil, discountID)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	campaign, err := s.campaigns.GetByID(ctx, nil, discount.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.CompanyID != userCompanyID {
		return nil, ErrForbidden
	}

	if ref.IsZero() {
		ref = s.now()
	}
	weekStart := startOfWeek(ref)
	weekEnd := weekStart.AddDate(0, 0, 7)

	counts, err := s.tickets.WeekdayCounts(ctx, discountID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	stats := &model.WeeklyClaimStats{
		DiscountID: discountID,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Claimed:    discount.Claimed,
		Unclaimed:  discount.Total - discount.Claimed,
	}
	for _, wd := range weekdayOrder {
		stats.PerWeekday = append(stats.PerWeekday, model.WeekdayCount{
			Weekday: wd.String(),
			Count:   counts[wd],
		})
	}

	if requiresAnswers(campaign, discount) {
		tallies, err := s.questions.ChoiceTallies(ctx, discountID, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		stats.ChoiceTallies = tallies
	}
	return stats, nil
}

// CompanyDashboard aggregates campaign and claim counts for one company. The
// six counts are independent, so they run concurrently.
func (s *StatsService) CompanyDashboard(ctx context.Context, companyID int64) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.ActiveCampaigns, err = s.campaigns.CountByProgress(gctx, companyID, model.ProgressOngoing)
		return err
	})
	g.Go(func() error {
		var err error
		stats.UpcomingCampaigns, err = s.campaigns.CountByProgress(gctx, companyID, model.ProgressUpcoming)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PastCampaigns, err = s.campaigns.CountByProgress(gctx, companyID, model.ProgressFinished)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalVouchers, err = s.discounts.CountByCompany(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ClaimedVouchers, err = s.tickets.CountByCompany(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalUserClaims, err = s.tickets.CountDistinctClaimers(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// startOfWeek truncates t to midnight of its week's Monday in t's location.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
