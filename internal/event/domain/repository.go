package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event Event) error
	GetByID(ctx context.Context, clubID, id snowflake.ID) (*Event, error)
	Update(ctx context.Context, event Event) error
	List(ctx context.Context, clubID snowflake.ID, status *Status) ([]Event, error)
}
