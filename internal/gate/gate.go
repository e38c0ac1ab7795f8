// Package gate resolves an authenticated identity to a club member profile
// and enforces role requirements. Every request passes through here exactly
// once; handlers and services downstream trust the resolved member.
package gate

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/config"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrAccountInactive = errors.New("account_inactive")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the only thing consumed from the identity provider: a stable
// subject id and a verified email.
type Principal struct {
	ExternalID string
	Email      string
}

type Gate struct {
	db      *gorm.DB
	members memberdomain.Repository
	invites invitedomain.Repository
	clubs   clubdomain.Service
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.Config
	log     *zap.Logger
}

func New(
	db *gorm.DB,
	members memberdomain.Repository,
	invites invitedomain.Repository,
	clubs clubdomain.Service,
	genID *snowflake.Node,
	clk clock.Clock,
	cfg config.Config,
	log *zap.Logger,
) *Gate {
	return &Gate{
		db:      db,
		members: members,
		invites: invites,
		clubs:   clubs,
		genID:   genID,
		clock:   clk,
		cfg:     cfg,
		log:     log,
	}
}

// Resolve maps a principal to its member profile. Resolution order:
// existing binding by external id, then first-sign-in binding by email,
// then pending invitation acceptance, then cold-start admin bootstrap.
func (g *Gate) Resolve(ctx context.Context, p Principal) (*memberdomain.Member, error) {
	externalID := strings.TrimSpace(p.ExternalID)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if externalID == "" || email == "" {
		return nil, ErrProfileNotFound
	}

	member, err := g.members.GetByExternalID(ctx, externalID)
	if err == nil {
		return g.checkActive(member)
	}
	if !errors.Is(err, memberdomain.ErrNotFound) {
		return nil, err
	}

	club, err := g.clubs.Default(ctx)
	if err != nil {
		return nil, err
	}

	member, err = g.members.GetByEmail(ctx, club.ID, email)
	if err == nil {
		return g.bindByEmail(ctx, member, externalID)
	}
	if !errors.Is(err, memberdomain.ErrNotFound) {
		return nil, err
	}

	invite, err := g.invites.GetPendingByEmail(ctx, club.ID, email)
	if err == nil && invite.Pending(g.clock.Now()) {
		return g.acceptInvite(ctx, club.ID, invite, externalID, email)
	}
	if err != nil && !errors.Is(err, invitedomain.ErrNotFound) {
		return nil, err
	}

	count, err := g.members.Count(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return g.bootstrapAdmin(ctx, club.ID, externalID, email)
	}

	return nil, ErrProfileNotFound
}

// RequireRole enforces that the member holds one of the given roles. Admin
// passes every role check.
func RequireRole(member *memberdomain.Member, roles ...memberdomain.Role) error {
	if member == nil {
		return ErrProfileNotFound
	}
	if !member.Active {
		return ErrAccountInactive
	}
	if member.Role == memberdomain.RoleAdmin {
		return nil
	}
	for _, role := range roles {
		if member.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// Privileged reports whether the member may review records and see the
// pending queue.
func Privileged(member *memberdomain.Member) bool {
	return member != nil && member.Active && member.Role.Privileged()
}

func (g *Gate) checkActive(member *memberdomain.Member) (*memberdomain.Member, error) {
	if !member.Active {
		return nil, ErrAccountInactive
	}
	return member, nil
}

func (g *Gate) bindByEmail(ctx context.Context, member *memberdomain.Member, externalID string) (*memberdomain.Member, error) {
	if member.ExternalID != nil {
		// The email already belongs to a profile bound to a different
		// identity; never rebind silently.
		if *member.ExternalID == externalID {
			return g.checkActive(member)
		}
		return nil, ErrProfileNotFound
	}

	if err := g.members.BindExternalID(ctx, member.ID, externalID); err != nil {
		return nil, err
	}
	member.ExternalID = &externalID

	g.log.Info("bound identity to member profile",
		zap.Int64("member_id", member.ID.Int64()),
	)
	return g.checkActive(member)
}

func (g *Gate) acceptInvite(ctx context.Context, clubID snowflake.ID, invite *invitedomain.Invitation, externalID, email string) (*memberdomain.Member, error) {
	now := g.clock.Now()
	member := memberdomain.Member{
		ID:         g.genID.Generate(),
		ClubID:     clubID,
		ExternalID: &externalID,
		Email:      email,
		Role:       invite.Role,
		Active:     true,
		JoinedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := g.members.WithTx(tx).Create(ctx, member); err != nil {
			return err
		}
		return g.invites.WithTx(tx).MarkAccepted(ctx, invite.ID, now)
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("invitation accepted",
		zap.Int64("member_id", member.ID.Int64()),
		zap.String("role", string(member.Role)),
	)
	return &member, nil
}

func (g *Gate) bootstrapAdmin(ctx context.Context, clubID snowflake.ID, externalID, email string) (*memberdomain.Member, error) {
	if g.cfg.BootstrapAdminEmail != "" && g.cfg.BootstrapAdminEmail != email {
		return nil, ErrProfileNotFound
	}

	now := g.clock.Now()
	member := memberdomain.Member{
		ID:         g.genID.Generate(),
		ClubID:     clubID,
		ExternalID: &externalID,
		Email:      email,
		Role:       memberdomain.RoleAdmin,
		Active:     true,
		JoinedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := g.members.Create(ctx, member); err != nil {
		return nil, err
	}

	g.log.Info("bootstrapped first admin",
		zap.Int64("member_id", member.ID.Int64()),
	)
	return &member, nil
}
