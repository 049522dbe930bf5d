package model

import "time"

// WeekdayCount is the number of claims made on one weekday of the reference
// week.
type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// ChoiceTally is the number of claim answers selecting one choice.
type ChoiceTally struct {
	QuestionID int64 `json:"questionId"`
	ChoiceID   int64 `json:"choiceId"`
	Count      int   `json:"count"`
}

// WeeklyClaimStats aggregates claim activity for a discount over one week,
// Monday through Sunday.
type WeeklyClaimStats struct {
	DiscountID int64          `json:"discountId"`
	WeekStart  time.Time      `json:"weekStart"`
	WeekEnd    time.Time      `json:"weekEnd"`
	PerWeekday []WeekdayCount `json:"perWeekday"`
	Claimed    int            `json:"claimed"`
	Unclaimed  int            `json:"unclaimed"`
	// ChoiceTallies is populated only when the effective claim type is
	// QUESTIONS.
	ChoiceTallies []ChoiceTally `json:"choiceTallies,omitempty"`
}

// DashboardStats is the company-facing overview of campaign activity.
type DashboardStats struct {
	ActiveCampaigns   int `json:"activeCampaigns"`
	UpcomingCampaigns int `json:"upcomingCampaigns"`
	PastCampaigns     int `json:"pastCampaigns"`
	TotalVouchers     int `json:"totalVouchers"`
	ClaimedVouchers   int `json:"claimedVouchers"`
	TotalUserClaims   int `json:"totalUserClaims"`
}
