package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
)

// SubmitInput carries a member's donation entry.
type SubmitInput struct {
	EventID      *snowflake.ID `json:"event_id"`
	DonorName    string        `json:"donor_name"`
	DonorContact string        `json:"donor_contact"`
	Amount       int64         `json:"amount"`
	Mode         Mode          `json:"mode"`
	Note         string        `json:"note"`
	ReceiptURL   string        `json:"receipt_url"`
}

// UpdateInput carries field edits. Status is never editable through here.
type UpdateInput struct {
	EventID      *snowflake.ID `json:"event_id"`
	DonorName    *string       `json:"donor_name"`
	DonorContact *string       `json:"donor_contact"`
	Amount       *int64        `json:"amount"`
	Mode         *Mode         `json:"mode"`
	Note         *string       `json:"note"`
	ReceiptURL   *string       `json:"receipt_url"`
}

// ListInput selects a page of donations. Mine narrows to the caller's own
// records regardless of status.
type ListInput struct {
	Status  *approval.Status
	EventID *snowflake.ID
	Mine    bool
	Page    pagination.Pagination
}

type Service interface {
	Submit(ctx context.Context, actor *memberdomain.Member, input SubmitInput) (*Donation, error)
	Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Donation, error)
	List(ctx context.Context, actor *memberdomain.Member, input ListInput) ([]*Donation, *pagination.PageInfo, error)
	ListPending(ctx context.Context, actor *memberdomain.Member, page pagination.Pagination) ([]*Donation, *pagination.PageInfo, error)
	Approve(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Donation, error)
	Reject(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, reason string) (*Donation, error)
	Resubmit(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Donation, error)
	Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Donation, error)
}
