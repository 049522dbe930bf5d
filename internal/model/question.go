package model

import "time"

// QuestionType is the answer mode of a qualification question.
type QuestionType string

const (
	QuestionTypeFree           QuestionType = "FREE"
	QuestionTypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// VoucherQuestion is a qualification question attached to either a campaign
// or a specific discount (mutually exclusive ownership).
type VoucherQuestion struct {
	ID         int64        `json:"id"`
	CampaignID *int64       `json:"campaignId,omitempty"`
	DiscountID *int64       `json:"discountId,omitempty"`
	Question   string       `json:"question"`
	Type       QuestionType `json:"type"`
	IsDeleted  bool         `json:"isDeleted"`
	CreatedAt  time.Time    `json:"createdAt"`

	Choices []VoucherQuestionChoice `json:"voucherQuestionChoices,omitempty"`
}

// IsTextAnswer reports whether the question expects a free-text answer.
func (q VoucherQuestion) IsTextAnswer() bool {
	return q.Type == QuestionTypeFree
}

// VoucherQuestionChoice is one selectable option of a choice-based question.
type VoucherQuestionChoice struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	Choice     string    `json:"choice"`
	IsCorrect  bool      `json:"isCorrect"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ClaimAnswer is one persisted answer row: either a free-text answer or a
// single selected choice for a (ticket, question) pair.
type ClaimAnswer struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticketId"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	TextAnswer *string   `json:"textAnswer,omitempty"`
	ChoiceID   *int64    `json:"choiceId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// QuestionCreateInput describes one question (with nested choices) inside a
// campaign or discount create payload.
type QuestionCreateInput struct {
	Question string              `json:"question" validate:"required,notblank,max=255"`
	Type     QuestionType        `json:"type" validate:"required,oneof=FREE SINGLE_CHOICE MULTIPLE_CHOICE"`
	Choices  []ChoiceCreateInput `json:"choices" validate:"omitempty,dive"`
}

// QuestionUpdateInput describes one question inside a full campaign update.
// A nil ID means the question is created under the campaign.
type QuestionUpdateInput struct {
	ID        *int64              `json:"id"`
	Question  *string             `json:"question" validate:"omitempty,notblank,max=255"`
	Type      *QuestionType       `json:"type" validate:"omitempty,oneof=FREE SINGLE_CHOICE MULTIPLE_CHOICE"`
	IsDeleted *bool               `json:"isDeleted"`
	Choices   []ChoiceUpdateInput `json:"choices" validate:"omitempty,dive"`
}

// ChoiceCreateInput is one option of a question create payload.
type ChoiceCreateInput struct {
	Choice    string `json:"choice" validate:"required,notblank,max=255"`
	IsCorrect bool   `json:"isCorrect"`
}

// ChoiceUpdateInput is one option of a question update payload.
type ChoiceUpdateInput struct {
	ID        *int64  `json:"id"`
	Choice    *string `json:"choice" validate:"omitempty,notblank,max=255"`
	IsCorrect *bool   `json:"isCorrect"`
	IsDeleted *bool   `json:"isDeleted"`
}
