package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/gate"
	"github.com/clubkosh/clubkosh/internal/member/domain"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{repo: repo, clock: clk, log: log}
}

func (s *service) Get(ctx context.Context, actor *domain.Member, id snowflake.ID) (*domain.Member, error) {
	if err := gate.RequireRole(actor, domain.RoleAdmin, domain.RoleTreasurer, domain.RoleCoordinator); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, actor.ClubID, id)
}

func (s *service) List(ctx context.Context, actor *domain.Member) ([]domain.Member, error) {
	if err := gate.RequireRole(actor, domain.RoleAdmin, domain.RoleTreasurer, domain.RoleCoordinator); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, actor.ClubID)
}

func (s *service) UpdateProfile(ctx context.Context, actor *domain.Member, id snowflake.ID, input domain.UpdateProfileInput) (*domain.Member, error) {
	if actor == nil {
		return nil, gate.ErrProfileNotFound
	}
	if actor.ID != id {
		if err := gate.RequireRole(actor, domain.RoleAdmin); err != nil {
			return nil, err
		}
	} else if !actor.Active {
		return nil, gate.ErrAccountInactive
	}

	member, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		member.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Phone != nil {
		member.Phone = strings.TrimSpace(*input.Phone)
	}
	member.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) SetRole(ctx context.Context, actor *domain.Member, id snowflake.ID, role domain.Role) (*domain.Member, error) {
	if err := gate.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	// An admin cannot change their own role; there must always be a way
	// back into administration.
	if actor.ID == id {
		return nil, gate.ErrForbidden
	}

	member, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	previous := member.Role
	member.Role = role
	member.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *member); err != nil {
		return nil, err
	}

	s.log.Info("member role changed",
		zap.Int64("member_id", member.ID.Int64()),
		zap.String("from", string(previous)),
		zap.String("to", string(role)),
		zap.Int64("changed_by", actor.ID.Int64()),
	)
	return member, nil
}

func (s *service) SetActive(ctx context.Context, actor *domain.Member, id snowflake.ID, active bool) (*domain.Member, error) {
	if err := gate.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, gate.ErrForbidden
	}

	member, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	member.Active = active
	member.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *member); err != nil {
		return nil, err
	}

	s.log.Info("member active flag changed",
		zap.Int64("member_id", member.ID.Int64()),
		zap.Bool("active", active),
		zap.Int64("changed_by", actor.ID.Int64()),
	)
	return member, nil
}
