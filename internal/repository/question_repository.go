package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voucherhub/voucher-platform/internal/model"
	"github.com/voucherhub/voucher-platform/pkg/database"
)

// QuestionRepository provides data access for qualification questions,
// choices and claim answers using pgx.
type QuestionRepository struct {
	pool database.TxQuerier
}

// NewQuestionRepository creates a new QuestionRepository with the given pool.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// NewQuestionRepositoryWithQuerier creates a QuestionRepository with a custom
// querier. This is primarily used for testing.
func NewQuestionRepositoryWithQuerier(q database.TxQuerier) *QuestionRepository {
	return &QuestionRepository{pool: q}
}

// Insert inserts a question (with its nested choices) within a transaction,
// filling in generated ids.
func (r *QuestionRepository) Insert(ctx context.Context, tx database.TxQuerier, q *model.VoucherQuestion) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO voucher_questions (campaign_id, discount_id, question, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		q.CampaignID, q.DiscountID, q.Question, q.Type,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	for i := range q.Choices {
		q.Choices[i].QuestionID = q.ID
		if err := r.InsertChoice(ctx, tx, &q.Choices[i]); err != nil {
			return err
		}
	}
	return nil
}

// InsertChoice inserts one question choice within a transaction.
func (r *QuestionRepository) InsertChoice(ctx context.Context, tx database.TxQuerier, c *model.VoucherQuestionChoice) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO voucher_question_choices (question_id, choice, is_correct)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.QuestionID, c.Choice, c.IsCorrect,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert question choice: %w", err)
	}
	return nil
}

// GetByID retrieves a question by id through the given querier (pool or tx).
// Returns nil, nil if the question is not found.
func (r *QuestionRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.VoucherQuestion, error) {
	if q == nil {
		q = r.pool
	}
	var question model.VoucherQuestion
	err := q.QueryRow(ctx,
		`SELECT id, campaign_id, discount_id, question, type, is_deleted, created_at
		 FROM voucher_questions WHERE id = $1`, id,
	).Scan(&question.ID, &question.CampaignID, &question.DiscountID, &question.Question,
		&question.Type, &question.IsDeleted, &question.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return &question, nil
}

// ListActiveByDiscount retrieves a discount's non-deleted questions with
// their non-deleted choices, oldest first.
func (r *QuestionRepository) ListActiveByDiscount(ctx context.Context, q database.TxQuerier, discountID int64) ([]model.VoucherQuestion, error) {
	return r.listActive(ctx, q, "discount_id", discountID)
}

// ListActiveByCampaign retrieves a campaign's non-deleted questions with
// their non-deleted choices, oldest first.
func (r *QuestionRepository) ListActiveByCampaign(ctx context.Context, q database.TxQuerier, campaignID int64) ([]model.VoucherQuestion, error) {
	return r.listActive(ctx, q, "campaign_id", campaignID)
}

func (r *QuestionRepository) listActive(ctx context.Context, q database.TxQuerier, ownerCol string, ownerID int64) ([]model.VoucherQuestion, error) {
	if q == nil {
		q = r.pool
	}
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT id, campaign_id, discount_id, question, type, is_deleted, created_at
			FROM voucher_questions
			WHERE %s = $1 AND is_deleted = FALSE
			ORDER BY created_at ASC`, ownerCol),
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list questions by %s %d: %w", ownerCol, ownerID, err)
	}
	defer rows.Close()

	questions := []model.VoucherQuestion{}
	for rows.Next() {
		var question model.VoucherQuestion
		err := rows.Scan(&question.ID, &question.CampaignID, &question.DiscountID,
			&question.Question, &question.Type, &question.IsDeleted, &question.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	for i := range questions {
		choices, err := r.listActiveChoices(ctx, q, questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Choices = choices
	}
	return questions, nil
}

func (r *QuestionRepository) listActiveChoices(ctx context.Context, q database.TxQuerier, questionID int64) ([]model.VoucherQuestionChoice, error) {
	rows, err := q.Query(ctx,
		`SELECT id, question_id, choice, is_correct, is_deleted, created_at
		 FROM voucher_question_choices
		 WHERE question_id = $1 AND is_deleted = FALSE
		 ORDER BY created_at ASC`,
		questionID)
	if err != nil {
		return nil, fmt.Errorf("list choices for question %d: %w", questionID, err)
	}
	defer rows.Close()

	choices := []model.VoucherQuestionChoice{}
	for rows.Next() {
		var c model.VoucherQuestionChoice
		err := rows.Scan(&c.ID, &c.QuestionID, &c.Choice, &c.IsCorrect, &c.IsDeleted, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate choices: %w", err)
	}
	return choices, nil
}

// Update applies the non-nil fields of input to the question row within a
// transaction, including nested choice updates and creations.
func (r *QuestionRepository) Update(ctx context.Context, tx database.TxQuerier, id int64, input model.QuestionUpdateInput) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Question != nil {
		add("question", *input.Question)
	}
	if input.Type != nil {
		add("type", *input.Type)
	}
	if input.IsDeleted != nil {
		add("is_deleted", *input.IsDeleted)
	}
	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE voucher_questions SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update question %d: %w", id, err)
		}
	}

	for _, choice := range input.Choices {
		if choice.ID != nil {
			if err := r.UpdateChoice(ctx, tx, *choice.ID, choice); err != nil {
				return err
			}
			continue
		}
		created := model.VoucherQuestionChoice{QuestionID: id}
		if choice.Choice != nil {
			created.Choice = *choice.Choice
		}
		if choice.IsCorrect != nil {
			created.IsCorrect = *choice.IsCorrect
		}
		if err := r.InsertChoice(ctx, tx, &created); err != nil {
			return err
		}
	}
	return nil
}

// UpdateChoice applies the non-nil fields of input to a choice row within a
// transaction.
func (r *QuestionRepository) UpdateChoice(ctx context.Context, tx database.TxQuerier, id int64, input model.ChoiceUpdateInput) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Choice != nil {
		add("choice", *input.Choice)
	}
	if input.IsCorrect != nil {
		add("is_correct", *input.IsCorrect)
	}
	if input.IsDeleted != nil {
		add("is_deleted", *input.IsDeleted)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE voucher_question_choices SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update choice %d: %w", id, err)
	}
	return nil
}

// InsertAnswers persists the claim answer rows within a transaction.
func (r *QuestionRepository) InsertAnswers(ctx context.Context, tx database.TxQuerier, answers []model.ClaimAnswer) error {
	for i := range answers {
		err := tx.QueryRow(ctx,
			`INSERT INTO user_claim_question_answers (ticket_id, question_id, user_id, text_answer, choice_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			answers[i].TicketID, answers[i].QuestionID, answers[i].UserID,
			answers[i].TextAnswer, answers[i].ChoiceID,
		).Scan(&answers[i].ID, &answers[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("insert claim answer: %w", err)
		}
	}
	return nil
}

// ChoiceTallies counts, per choice, the answers recorded for a discount's
// tickets within [from, to).
func (r *QuestionRepository) ChoiceTallies(ctx context.Context, discountID int64, from, to time.Time) ([]model.ChoiceTally, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.question_id, a.choice_id, COUNT(*)
		 FROM user_claim_question_answers a
		 JOIN voucher_tickets t ON t.id = a.ticket_id
		 WHERE t.discount_id = $1 AND a.choice_id IS NOT NULL
		   AND t.claim_at >= $2 AND t.claim_at < $3
		 GROUP BY a.question_id, a.choice_id
		 ORDER BY a.question_id, a.choice_id`,
		discountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("choice tallies for discount %d: %w", discountID, err)
	}
	defer rows.Close()

	tallies := []model.ChoiceTally{}
	for rows.Next() {
		var t model.ChoiceTally
		if err := rows.Scan(&t.QuestionID, &t.ChoiceID, &t.Count); err != nil {
			return nil, fmt.Errorf("scan choice tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate choice tallies: %w", err)
	}
	return tallies, nil
}
