package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
)

// SubmitInput carries a member's expense entry.
type SubmitInput struct {
	EventID     *snowflake.ID `json:"event_id"`
	PaidTo      string        `json:"paid_to"`
	Category    Category      `json:"category"`
	Description string        `json:"description"`
	Amount      int64         `json:"amount"`
	ReceiptURL  string        `json:"receipt_url"`
}

// UpdateInput carries field edits. Status is never editable through here.
type UpdateInput struct {
	EventID     *snowflake.ID `json:"event_id"`
	PaidTo      *string       `json:"paid_to"`
	Category    *Category     `json:"category"`
	Description *string       `json:"description"`
	Amount      *int64        `json:"amount"`
	ReceiptURL  *string       `json:"receipt_url"`
}

// ListInput selects a page of expenses. Mine narrows to the caller's own
// records regardless of status.
type ListInput struct {
	Status   *approval.Status
	EventID  *snowflake.ID
	Category *Category
	Mine     bool
	Page     pagination.Pagination
}

type Service interface {
	Submit(ctx context.Context, actor *memberdomain.Member, input SubmitInput) (*Expense, error)
	Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, actor *memberdomain.Member, input ListInput) ([]*Expense, *pagination.PageInfo, error)
	ListPending(ctx context.Context, actor *memberdomain.Member, page pagination.Pagination) ([]*Expense, *pagination.PageInfo, error)
	Approve(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Expense, error)
	Reject(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, reason string) (*Expense, error)
	Resubmit(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Expense, error)
	Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Expense, error)
}
