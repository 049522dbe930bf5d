package model

import "time"

// CampaignProgress buckets campaigns by where their date window sits relative
// to now.
type CampaignProgress string

const (
	ProgressUpcoming CampaignProgress = "UPCOMING"
	ProgressOngoing  CampaignProgress = "ONGOING"
	ProgressFinished CampaignProgress = "FINISHED"
)

// Campaign is a time-boxed marketing initiative owned by a company. It owns
// zero or more voucher discounts and optional campaign-level questions.
type Campaign struct {
	ID          int64      `json:"id"`
	CompanyID   int64      `json:"companyId"`
	CreatedBy   int64      `json:"createdBy"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Logo        *string    `json:"logo,omitempty"`
	ClaimType   *ClaimType `json:"claimType,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	IsDeleted   bool       `json:"isDeleted"`
	CreatedAt   time.Time  `json:"createdAt"`

	Discounts []VoucherDiscount `json:"voucherDiscounts,omitempty"`
	Questions []VoucherQuestion `json:"voucherQuestions,omitempty"`
}

// CampaignCreateRequest is the payload for POST /api/campaigns. The campaign,
// its discounts and its questions are created as one unit.
type CampaignCreateRequest struct {
	Name        string                `json:"name" validate:"required,notblank,max=255"`
	Description *string               `json:"description" validate:"omitempty,max=255"`
	ClaimType   *ClaimType            `json:"claimType" validate:"omitempty,oneof=FASTEST QUESTIONS"`
	StartDate   time.Time             `json:"startDate" validate:"required"`
	EndDate     time.Time             `json:"endDate" validate:"required,gtfield=StartDate"`
	Discounts   []DiscountCreateInput `json:"voucherDiscounts" validate:"required,min=1,dive"`
	Questions   []QuestionCreateInput `json:"questions" validate:"omitempty,dive"`
}

// CampaignUpdateFullRequest is the payload for PATCH /api/campaigns/:id/full.
// Nested items carrying an id are updated in place; items without an id are
// created under the campaign.
type CampaignUpdateFullRequest struct {
	Name        *string               `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string               `json:"description" validate:"omitempty,max=255"`
	ClaimType   *ClaimType            `json:"claimType" validate:"omitempty,oneof=FASTEST QUESTIONS"`
	StartDate   *time.Time            `json:"startDate"`
	EndDate     *time.Time            `json:"endDate"`
	IsDeleted   *bool                 `json:"isDeleted"`
	Discounts   []DiscountUpdateInput `json:"voucherDiscounts" validate:"omitempty,dive"`
	Questions   []QuestionUpdateInput `json:"questions" validate:"omitempty,dive"`
}

// ListQuery carries the common pagination and filter parameters for campaign
// and voucher listings.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Progress  CampaignProgress
	CompanyID int64
}

// Normalize applies the default page and limit used across all listings.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

// Offset returns the row offset for the query's page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ListMeta is the pagination metadata attached to list responses.
type ListMeta struct {
	HasNextPage bool `json:"hasNextPage"`
}
