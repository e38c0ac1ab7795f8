package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// UpdateProfileInput carries the self-service editable fields.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
}

type Service interface {
	Get(ctx context.Context, actor *Member, id snowflake.ID) (*Member, error)
	List(ctx context.Context, actor *Member) ([]Member, error)
	UpdateProfile(ctx context.Context, actor *Member, id snowflake.ID, input UpdateProfileInput) (*Member, error)
	SetRole(ctx context.Context, actor *Member, id snowflake.ID, role Role) (*Member, error)
	SetActive(ctx context.Context, actor *Member, id snowflake.ID, active bool) (*Member, error)
}
