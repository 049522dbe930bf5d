package service

import "errors"

// Business errors surfaced to users. Handlers map these to HTTP statuses;
// anything else becomes a 500 with no internal detail leaked.
var (
	// ErrCampaignNotFound is returned when a campaign cannot be found.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrDiscountNotFound is returned when a voucher discount cannot be found.
	ErrDiscountNotFound = errors.New("voucher not found")

	// ErrQuestionNotFound is returned when a referenced question cannot be found.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrCampaignDeleted is returned when claiming against a soft-deleted campaign.
	ErrCampaignDeleted = errors.New("campaign has been deleted")

	// ErrDiscountDeleted is returned when claiming a soft-deleted voucher.
	ErrDiscountDeleted = errors.New("voucher has been deleted")

	// ErrCampaignNotStarted is returned when claiming before the campaign window opens.
	ErrCampaignNotStarted = errors.New("campaign has not started yet")

	// ErrCampaignEnded is returned when claiming after the campaign window closed.
	ErrCampaignEnded = errors.New("campaign has ended")

	// ErrAnswersRequired is returned when a QUESTIONS-type claim carries no answers.
	ErrAnswersRequired = errors.New("voucher requires questions and answers")

	// ErrAlreadyClaimed is returned when the user already holds a ticket for the discount.
	ErrAlreadyClaimed = errors.New("voucher already claimed")

	// ErrNoStock is returned when a discount has no remaining stock.
	ErrNoStock = errors.New("voucher has run out")

	// ErrAnswerMismatch is returned when submitted answers do not match the
	// shape required by the active questions.
	ErrAnswerMismatch = errors.New("question and answer not match")

	// ErrForbidden is returned on cross-tenant mutation attempts.
	ErrForbidden = errors.New("not allowed to modify this resource")

	// ErrInvalidRequest is returned when request data is invalid or incomplete.
	ErrInvalidRequest = errors.New("invalid request")
)

// IsBusinessError reports whether err is one of the user-facing business
// rejections (as opposed to an infrastructure failure).
func IsBusinessError(err error) bool {
	for _, sentinel := range []error{
		ErrCampaignNotFound, ErrDiscountNotFound, ErrQuestionNotFound,
		ErrCampaignDeleted, ErrDiscountDeleted,
		ErrCampaignNotStarted, ErrCampaignEnded,
		ErrAnswersRequired, ErrAlreadyClaimed, ErrNoStock, ErrAnswerMismatch,
		ErrForbidden, ErrInvalidRequest,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
