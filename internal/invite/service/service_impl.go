package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/clock"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	"github.com/clubkosh/clubkosh/internal/config"
	"github.com/clubkosh/clubkosh/internal/gate"
	"github.com/clubkosh/clubkosh/internal/invite/domain"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/observability/metrics"
	"github.com/clubkosh/clubkosh/internal/providers/email"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	repo    domain.Repository
	members memberdomain.Repository
	clubs   clubdomain.Service
	mailer  email.Provider
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.Config
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(
	repo domain.Repository,
	members memberdomain.Repository,
	clubs clubdomain.Service,
	mailer email.Provider,
	genID *snowflake.Node,
	clk clock.Clock,
	cfg config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:    repo,
		members: members,
		clubs:   clubs,
		mailer:  mailer,
		genID:   genID,
		clock:   clk,
		cfg:     cfg,
		metrics: m,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, actor *memberdomain.Member, input domain.CreateInviteInput) (*domain.Invitation, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}

	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if !input.Role.Valid() {
		return nil, memberdomain.ErrInvalidRole
	}

	if _, err := s.members.GetByEmail(ctx, actor.ClubID, emailAddr); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, memberdomain.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	if existing, err := s.repo.GetPendingByEmail(ctx, actor.ClubID, emailAddr); err == nil {
		if existing.Pending(now) {
			return nil, domain.ErrInvitePending
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	invite := domain.Invitation{
		ID:        s.genID.Generate(),
		ClubID:    actor.ClubID,
		Email:     emailAddr,
		Role:      input.Role,
		Token:     uuid.NewString(),
		InvitedBy: actor.ID,
		ExpiresAt: now.Add(s.cfg.InviteTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, err
	}

	if err := s.sendInviteEmail(ctx, actor, invite); err != nil {
		// The invite must not sit in the database unreachable; roll it
		// back so the admin can retry.
		if delErr := s.repo.Delete(ctx, invite.ID); delErr != nil {
			s.log.Error("failed to roll back invite after send failure",
				zap.Int64("invite_id", invite.ID.Int64()),
				zap.Error(delErr),
			)
		}
		s.metrics.RecordInviteCompensated(ctx, string(invite.Role))
		s.log.Warn("invite email failed, invite rolled back",
			zap.Int64("invite_id", invite.ID.Int64()),
			zap.Error(err),
		)
		return nil, domain.ErrSendFailed
	}

	s.metrics.RecordInviteSent(ctx, string(invite.Role))
	s.log.Info("invitation sent",
		zap.Int64("invite_id", invite.ID.Int64()),
		zap.String("role", string(invite.Role)),
		zap.Int64("invited_by", actor.ID.Int64()),
	)
	return &invite, nil
}

func (s *service) ResolveToken(ctx context.Context, token string) (*domain.TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotFound
	}

	invite, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	// Expired and accepted tokens are indistinguishable from unknown ones.
	if !invite.Pending(s.clock.Now()) {
		return nil, domain.ErrNotFound
	}

	club, err := s.clubs.Default(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.TokenInfo{
		ClubName:  club.Name,
		Email:     invite.Email,
		Role:      invite.Role,
		ExpiresAt: invite.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) List(ctx context.Context, actor *memberdomain.Member) ([]domain.Invitation, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, actor.ClubID)
}

func (s *service) Revoke(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) error {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return err
	}

	invites, err := s.repo.List(ctx, actor.ClubID)
	if err != nil {
		return err
	}
	for _, invite := range invites {
		if invite.ID == id {
			if invite.AcceptedAt != nil {
				return domain.ErrNotFound
			}
			return s.repo.Delete(ctx, id)
		}
	}
	return domain.ErrNotFound
}

func (s *service) sendInviteEmail(ctx context.Context, actor *memberdomain.Member, invite domain.Invitation) error {
	club, err := s.clubs.Default(ctx)
	if err != nil {
		return err
	}

	invitedBy := actor.DisplayName
	if invitedBy == "" {
		invitedBy = actor.Email
	}

	return s.mailer.SendTemplate(ctx, []string{invite.Email}, "invite_member", map[string]interface{}{
		"subject":    fmt.Sprintf("You're invited to join %s", club.Name),
		"club_name":  club.Name,
		"invited_by": invitedBy,
		"role":       string(invite.Role),
		"invite_url": fmt.Sprintf("%s/invites/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), invite.Token),
		"expires_at": invite.ExpiresAt.UTC().Format("Jan 2, 2006"),
	})
}
