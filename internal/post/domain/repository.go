package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListQuery selects posts. When VisibleTo is set the result is restricted to
// published posts plus the caller's own drafts.
type ListQuery struct {
	ClubID    snowflake.ID
	Status    *Status
	VisibleTo *snowflake.ID
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, post Post) error
	GetByID(ctx context.Context, clubID, id snowflake.ID) (*Post, error)
	Update(ctx context.Context, post Post) error
	Delete(ctx context.Context, clubID, id snowflake.ID) error
	List(ctx context.Context, q ListQuery) ([]Post, error)
}
