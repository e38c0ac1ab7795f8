package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, member Member) error
	GetByID(ctx context.Context, clubID, id snowflake.ID) (*Member, error)
	GetByExternalID(ctx context.Context, externalID string) (*Member, error)
	GetByEmail(ctx context.Context, clubID snowflake.ID, email string) (*Member, error)
	List(ctx context.Context, clubID snowflake.ID) ([]Member, error)
	Update(ctx context.Context, member Member) error
	BindExternalID(ctx context.Context, id snowflake.ID, externalID string) error
	Count(ctx context.Context, clubID snowflake.ID) (int64, error)
}
