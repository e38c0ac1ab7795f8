package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invite Invitation) error
	Delete(ctx context.Context, id snowflake.ID) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	GetPendingByEmail(ctx context.Context, clubID snowflake.ID, email string) (*Invitation, error)
	MarkAccepted(ctx context.Context, id snowflake.ID, acceptedAt time.Time) error
	List(ctx context.Context, clubID snowflake.ID) ([]Invitation, error)
}
