// Package domain defines the read models for fund aggregates. Nothing here
// is stored; every figure is derived from the donation and expense tables at
// request time so totals can never drift from the records.
package domain

import (
	"context"

	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

// PendingCount is the size of the review queue shown to reviewers.
type PendingCount struct {
	Donations int64 `json:"donations"`
	Expenses  int64 `json:"expenses"`
	Total     int64 `json:"total"`
}

// FundSummary is the club's financial position derived from approved
// records. Amounts are in minor units (paise).
type FundSummary struct {
	DonationsTotal      int64 `json:"donations_total"`
	DonationsCount      int64 `json:"donations_count"`
	ExpensesTotal       int64 `json:"expenses_total"`
	ExpensesCount       int64 `json:"expenses_count"`
	Balance             int64 `json:"balance"`
	PendingExpenseTotal int64 `json:"pending_expense_total"`
	PendingExpenseCount int64 `json:"pending_expense_count"`
}

type Service interface {
	PendingCount(ctx context.Context, actor *memberdomain.Member) PendingCount
	FundSummary(ctx context.Context, actor *memberdomain.Member) (*FundSummary, error)
}
