package domain

import "context"

// Service resolves the club requests operate against.
type Service interface {
	Default(ctx context.Context) (*Club, error)
}
