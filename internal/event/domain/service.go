package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

// CreateInput carries a new event.
type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

// UpdateInput carries field edits and an optional status change.
type UpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	Status      *Status    `json:"status"`
}

type Service interface {
	Create(ctx context.Context, actor *memberdomain.Member, input CreateInput) (*Event, error)
	Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*Event, error)
	List(ctx context.Context, actor *memberdomain.Member, status *Status) ([]Event, error)
	Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input UpdateInput) (*Event, error)
}
