package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/event/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var allRoles = []memberdomain.Role{
	memberdomain.RoleAdmin,
	memberdomain.RoleTreasurer,
	memberdomain.RoleCoordinator,
}

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{repo: repo, genID: genID, clock: clk, log: log}
}

func (s *service) Create(ctx context.Context, actor *memberdomain.Member, input domain.CreateInput) (*domain.Event, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleCoordinator); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:          s.genID.Generate(),
		ClubID:      actor.ClubID,
		Title:       title,
		Slug:        slug.Make(title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		Status:      domain.StatusUpcoming,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("event created",
		zap.Int64("event_id", event.ID.Int64()),
		zap.Int64("created_by", actor.ID.Int64()),
	)
	return &event, nil
}

func (s *service) Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Event, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, actor.ClubID, id)
}

func (s *service) List(ctx context.Context, actor *memberdomain.Member, status *domain.Status) ([]domain.Event, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, actor.ClubID, status)
}

func (s *service) Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Event, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleCoordinator); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		event.Status = *input.Status
	}
	event.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *event); err != nil {
		return nil, err
	}
	return event, nil
}
