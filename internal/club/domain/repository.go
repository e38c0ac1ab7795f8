package domain

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, club Club) error
	GetBySlug(ctx context.Context, slug string) (*Club, error)
	GetDefault(ctx context.Context) (*Club, error)
}
