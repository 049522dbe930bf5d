package model

import "time"

// DiscountType distinguishes percentage discounts from fixed amounts.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeAmount     DiscountType = "AMOUNT"
)

// ClaimType controls how a voucher is claimed: first come first served, or
// gated behind qualification questions.
type ClaimType string

const (
	ClaimTypeFastest   ClaimType = "FASTEST"
	ClaimTypeQuestions ClaimType = "QUESTIONS"
)

// CodeType controls where ticket codes come from: generated at claim time, or
// assigned manually by the company.
type CodeType string

const (
	CodeTypeClaim  CodeType = "CLAIM"
	CodeTypeManual CodeType = "MANUAL"
)

// VoucherDiscount is a claimable voucher definition with finite stock.
// Invariant: claimed never exceeds total; claimed is only ever incremented
// inside the claim transaction.
type VoucherDiscount struct {
	ID          int64        `json:"id"`
	CampaignID  int64        `json:"campaignId"`
	Description *string      `json:"description,omitempty"`
	Type        DiscountType `json:"type"`
	ClaimType   *ClaimType   `json:"claimType,omitempty"`
	Code        *string      `json:"code,omitempty"`
	CodeType    CodeType     `json:"codeType"`
	Discount    float64      `json:"discount"`
	Total       int          `json:"total"`
	Claimed     int          `json:"claimed"`
	IsDeleted   bool         `json:"isDeleted"`
	CreatedAt   time.Time    `json:"createdAt"`

	Questions []VoucherQuestion `json:"voucherQuestions,omitempty"`
}

// VoucherTicket is proof of claim linking a user to a discount. OwnedBy is set
// when a company hands a manually generated ticket to a user.
type VoucherTicket struct {
	ID         int64     `json:"id"`
	DiscountID int64     `json:"discountId"`
	Code       *string   `json:"code,omitempty"`
	ClaimBy    int64     `json:"claimBy"`
	OwnedBy    *int64    `json:"ownedBy,omitempty"`
	ClaimAt    time.Time `json:"claimAt"`
}

// UserTicket is a ticket joined with its discount and campaign context, used
// by the "my vouchers" listings.
type UserTicket struct {
	VoucherTicket
	Discount VoucherDiscount `json:"voucherDiscount"`
	Campaign Campaign        `json:"campaign"`
}

// DiscountCreateInput describes one discount inside a campaign create payload.
type DiscountCreateInput struct {
	Description *string               `json:"description" validate:"omitempty,max=255"`
	Type        DiscountType          `json:"type" validate:"required,oneof=PERCENTAGE AMOUNT"`
	ClaimType   *ClaimType            `json:"claimType" validate:"omitempty,oneof=FASTEST QUESTIONS"`
	Code        *string               `json:"code" validate:"omitempty,max=255"`
	CodeType    CodeType              `json:"codeType" validate:"omitempty,oneof=CLAIM MANUAL"`
	Discount    float64               `json:"discount" validate:"required,gt=0"`
	Total       int                   `json:"total" validate:"required,gte=1"`
	Questions   []QuestionCreateInput `json:"questions" validate:"omitempty,dive"`
}

// DiscountUpdateInput describes one discount inside a full campaign update.
// A nil ID means the discount is created under the campaign.
type DiscountUpdateInput struct {
	ID          *int64                `json:"id"`
	IsDeleted   *bool                 `json:"isDeleted"`
	Description *string               `json:"description" validate:"omitempty,max=255"`
	Type        *DiscountType         `json:"type" validate:"omitempty,oneof=PERCENTAGE AMOUNT"`
	ClaimType   *ClaimType            `json:"claimType" validate:"omitempty,oneof=FASTEST QUESTIONS"`
	Code        *string               `json:"code" validate:"omitempty,max=255"`
	CodeType    *CodeType             `json:"codeType" validate:"omitempty,oneof=CLAIM MANUAL"`
	Discount    *float64              `json:"discount" validate:"omitempty,gt=0"`
	Total       *int                  `json:"total" validate:"omitempty,gte=1"`
	Questions   []QuestionUpdateInput `json:"questions" validate:"omitempty,dive"`
}

// ClaimRequest is the body for the claim endpoint. QuestionAnswers must be
// present when the effective claim type is QUESTIONS; absence and an empty
// array are distinct (absent means the claim carries no answer section).
type ClaimRequest struct {
	QuestionAnswers []QuestionAnswerInput `json:"questionAnswers" validate:"omitempty,dive"`
}

// QuestionAnswerInput is one submitted answer: either a list of choice ids or
// a free-text answer, never both.
type QuestionAnswerInput struct {
	QuestionID int64   `json:"questionId" validate:"required,gt=0"`
	Choices    []int64 `json:"choices" validate:"omitempty,min=1,dive,gt=0"`
	Answer     string  `json:"answer" validate:"omitempty,max=255"`
}

// IsTextAnswer reports whether this submission answers with free text.
func (a QuestionAnswerInput) IsTextAnswer() bool {
	return a.Answer != ""
}
