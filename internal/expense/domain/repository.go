package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListQuery describes a filtered page of expenses. When VisibleTo is set the
// result is restricted to approved records plus the caller's own.
type ListQuery struct {
	ClubID    snowflake.ID
	Status    *approval.Status
	EventID   *snowflake.ID
	Category  *Category
	OwnerID   *snowflake.ID
	VisibleTo *snowflake.ID
	Limit     int
	Cursor    *pagination.Cursor
}

// StatusStats is an aggregate over records in one status.
type StatusStats struct {
	Total int64
	Count int64
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, expense Expense) error
	GetByID(ctx context.Context, clubID, id snowflake.ID) (*Expense, error)
	Update(ctx context.Context, expense Expense) error
	List(ctx context.Context, q ListQuery) ([]*Expense, error)
	StatsByStatus(ctx context.Context, clubID snowflake.ID, status approval.Status) (StatusStats, error)
}
