package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

// CreateInviteInput carries an admin's request to invite someone.
type CreateInviteInput struct {
	Email string            `json:"email"`
	Role  memberdomain.Role `json:"role"`
}

// TokenInfo is the public view of an invitation resolved by its token. It
// never reveals whether a token is expired versus unknown.
type TokenInfo struct {
	ClubName  string            `json:"club_name"`
	Email     string            `json:"email"`
	Role      memberdomain.Role `json:"role"`
	ExpiresAt string            `json:"expires_at"`
}

type Service interface {
	Create(ctx context.Context, actor *memberdomain.Member, input CreateInviteInput) (*Invitation, error)
	ResolveToken(ctx context.Context, token string) (*TokenInfo, error)
	List(ctx context.Context, actor *memberdomain.Member) ([]Invitation, error)
	Revoke(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) error
}
