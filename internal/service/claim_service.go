package service

import (
	"context"
	"maps"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/voucherhub/voucher-platform/internal/metrics"
	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
	"github.com/voucherhub/voucher-platform/pkg/vouchercode"
)

// ClaimService coordinates the voucher claim transaction: eligibility checks,
// ticket creation, stock adjustment and answer persistence are one atomic
// unit. Mutual exclusion between concurrent claims is enforced by the
// database row lock, never by in-process state, so multiple server instances
// stay correct.
type ClaimService struct {
	pool      database.TxBeginner
	campaigns CampaignRepositoryInterface
	discounts DiscountRepositoryInterface
	tickets   TicketRepositoryInterface
	questions QuestionRepositoryInterface
	now       func() time.Time
}

// NewClaimService creates a ClaimService with the given pool and repositories.
func NewClaimService(
	pool database.TxBeginner,
	campaigns CampaignRepositoryInterface,
	discounts DiscountRepositoryInterface,
	tickets TicketRepositoryInterface,
	questions QuestionRepositoryInterface,
) *ClaimService {
	return &ClaimService{
		pool:      pool,
		campaigns: campaigns,
		discounts: discounts,
		tickets:   tickets,
		questions: questions,
		now:       time.Now,
	}
}

// ClaimVoucher atomically claims one unit of a discount's stock for a user.
// Preconditions are checked in order; any failure rolls back the whole
// transaction, including the ticket insert and the counter increment.
// Returns:
//   - ErrDiscountNotFound / ErrCampaignNotFound when the target is missing
//   - ErrDiscountDeleted / ErrCampaignDeleted for soft-deleted targets
//   - ErrCampaignNotStarted / ErrCampaignEnded outside the campaign window
//   - ErrAnswersRequired when a QUESTIONS claim carries no answer section
//   - ErrAlreadyClaimed when the user already holds a ticket
//   - ErrNoStock when the discount ran out
//   - ErrAnswerMismatch when submitted answers don't match the question set
func (s *ClaimService) ClaimVoucher(ctx context.Context, userID, discountID int64, answers []model.QuestionAnswerInput) (*model.VoucherTicket, error) {
	start := s.now()

	var ticket *model.VoucherTicket
	err := database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		// 1. Lock the discount row for the duration of the transaction.
		discount, err := s.discounts.GetForUpdate(ctx, tx, discountID)
		if err != nil {
			return err
		}
		if discount.IsDeleted {
			return ErrDiscountDeleted
		}

		// 2. Campaign must exist, be live and within its date window.
		campaign, err := s.campaigns.GetByID(ctx, tx, discount.CampaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if campaign.IsDeleted {
			return ErrCampaignDeleted
		}
		now := s.now()
		if campaign.StartDate.After(now) {
			return ErrCampaignNotStarted
		}
		if campaign.EndDate.Before(now) {
			return ErrCampaignEnded
		}

		// 3. QUESTIONS claims must carry an answer section. An empty array is
		// present; it fails the shape check below instead.
		if requiresAnswers(campaign, discount) && answers == nil {
			return ErrAnswersRequired
		}

		// 4. One self-service claim per (user, discount).
		existing, err := s.tickets.FindForUser(ctx, tx, userID, discount.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyClaimed
		}

		// 5. Stock check under the row lock.
		if discount.Claimed >= discount.Total {
			return ErrNoStock
		}

		ticket = &model.VoucherTicket{
			DiscountID: discount.ID,
			ClaimBy:    userID,
		}
		if discount.CodeType == model.CodeTypeClaim {
			code := vouchercode.Generate()
			ticket.Code = &code
		}
		// The unique constraint turns lookup races into ErrAlreadyClaimed.
		if err := s.tickets.Insert(ctx, tx, ticket); err != nil {
			return err
		}
		// Guarded increment: claimed can never pass total.
		if err := s.discounts.IncrementClaimed(ctx, tx, discount.ID); err != nil {
			return err
		}

		if answers != nil {
			required, err := s.requiredQuestions(ctx, tx, campaign, discount)
			if err != nil {
				return err
			}
			if !answerShapeMatches(required, answers) {
				return ErrAnswerMismatch
			}
			rows := buildAnswerRows(ticket, userID, answers)
			if len(rows) > 0 {
				if err := s.questions.InsertAnswers(ctx, tx, rows); err != nil {
					return err
				}
			}
		}
		return nil
	})

	elapsed := s.now().Sub(start).Seconds()
	switch {
	case err == nil:
		metrics.RecordClaimDuration(metrics.OutcomeClaimed, elapsed)
	case IsBusinessError(err):
		metrics.RecordClaimDuration(metrics.OutcomeRejected, elapsed)
		metrics.RecordClaimRejection(err.Error())
	default:
		metrics.RecordClaimDuration(metrics.OutcomeError, elapsed)
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// CanClaim reports whether the user holds no ticket for the discount yet.
func (s *ClaimService) CanClaim(ctx context.Context, userID, discountID int64) (bool, error) {
	ticket, err := s.tickets.FindForUser(ctx, nil, userID, discountID)
	if err != nil {
		return false, err
	}
	return ticket == nil, nil
}

// ListUserTickets retrieves the tickets claimed by or owned by the user,
// newest first, with their discount and campaign context.
func (s *ClaimService) ListUserTickets(ctx context.Context, userID int64) ([]model.UserTicket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

// requiresAnswers reports whether the effective claim type is QUESTIONS at
// either the campaign or the discount level.
func requiresAnswers(campaign *model.Campaign, discount *model.VoucherDiscount) bool {
	if discount.ClaimType != nil && *discount.ClaimType == model.ClaimTypeQuestions {
		return true
	}
	return campaign.ClaimType != nil && *campaign.ClaimType == model.ClaimTypeQuestions
}

// requiredQuestions returns the active question set the answers are checked
// against: the discount's own questions when the discount is QUESTIONS-typed,
// otherwise the campaign's.
func (s *ClaimService) requiredQuestions(ctx context.Context, tx database.TxQuerier, campaign *model.Campaign, discount *model.VoucherDiscount) ([]model.VoucherQuestion, error) {
	if discount.ClaimType != nil && *discount.ClaimType == model.ClaimTypeQuestions {
		return s.questions.ListActiveByDiscount(ctx, tx, discount.ID)
	}
	return s.questions.ListActiveByCampaign(ctx, tx, campaign.ID)
}

// answerShapeMatches compares the normalized question-id -> is-text-answer
// map of the required questions against the submitted answers. Every active
// question must be answered in its expected mode, and no extra answers are
// allowed.
func answerShapeMatches(required []model.VoucherQuestion, submitted []model.QuestionAnswerInput) bool {
	want := make(map[int64]bool, len(required))
	for _, q := range required {
		want[q.ID] = q.IsTextAnswer()
	}
	got := make(map[int64]bool, len(submitted))
	for _, a := range submitted {
		got[a.QuestionID] = a.IsTextAnswer()
	}
	return maps.Equal(want, got)
}

// buildAnswerRows flattens the submitted answers into one row per text answer
// and one row per selected choice.
func buildAnswerRows(ticket *model.VoucherTicket, userID int64, submitted []model.QuestionAnswerInput) []model.ClaimAnswer {
	rows := []model.ClaimAnswer{}
	for _, a := range submitted {
		if a.Answer != "" {
			answer := a.Answer
			rows = append(rows, model.ClaimAnswer{
				TicketID:   ticket.ID,
				QuestionID: a.QuestionID,
				UserID:     userID,
				TextAnswer: &answer,
			})
		}
		for _, choiceID := range a.Choices {
			choice := choiceID
			rows = append(rows, model.ClaimAnswer{
				TicketID:   ticket.ID,
				QuestionID: a.QuestionID,
				UserID:     userID,
				ChoiceID:   &choice,
			})
		}
	}
	return rows
}
