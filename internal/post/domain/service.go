package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

// CreateInput carries a new post; posts always start as drafts.
type CreateInput struct {
	EventID  *snowflake.ID `json:"event_id"`
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	ImageURL string        `json:"image_url"`
}

// UpdateInput carries field edits to a post the caller authored.
type UpdateInput struct {
	EventID  *snowflake.ID `json:"event_id"`
	Title    *string       `json:"title"`
	Body     *string       `json:"body"`
	ImageURL *string       `json:"image_url"`
}

type Service interface {
	Create(ctx context.Context, actor *memberdomain.Member, input CreateInput) (*Post, error)
	Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Post, error)
	List(ctx context.Context, actor *memberdomain.Member, status *Status) ([]Post, error)
	Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Post, error)
	Publish(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Post, error)
	Delete(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) error
}
