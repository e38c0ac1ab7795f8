package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/post/domain"
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

func (s *service) Create(ctx context.Context, actor *memberdomain.Member, input domain.CreateInput) (*domain.Post, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := s.clock.Now()
	post := domain.Post{
		ID:        s.genID.Generate(),
		ClubID:    actor.ClubID,
		EventID:   input.EventID,
		AuthorID:  actor.ID,
		Title:     title,
		Body:      input.Body,
		ImageURL:  strings.TrimSpace(input.ImageURL),
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *service) Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Post, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(actor, post) {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func (s *service) List(ctx context.Context, actor *memberdomain.Member, status *domain.Status) ([]domain.Post, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	q := domain.ListQuery{ClubID: actor.ClubID, Status: status}
	if actor.Role != memberdomain.RoleAdmin {
		q.VisibleTo = &actor.ID
	}
	return s.repo.List(ctx, q)
}

func (s *service) Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Post, error) {
	post, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		post.Title = title
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.EventID != nil {
		post.EventID = input.EventID
	}
	post.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) Publish(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Post, error) {
	post, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if post.Status == domain.StatusPublished {
		return post, nil
	}

	now := s.clock.Now()
	post.Status = domain.StatusPublished
	post.PublishedAt = &now
	post.UpdatedAt = now

	if err := s.repo.Update(ctx, *post); err != nil {
		return nil, err
	}

	s.log.Info("post published",
		zap.Int64("post_id", post.ID.Int64()),
		zap.Int64("author_id", post.AuthorID.Int64()),
	)
	return post, nil
}

func (s *service) Delete(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) error {
	if _, err := s.authored(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, actor.ClubID, id)
}

// authored loads the post and enforces that the actor wrote it; admins may
// edit any post.
func (s *service) authored(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Post, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID && actor.Role != memberdomain.RoleAdmin {
		if !s.visible(actor, post) {
			return nil, domain.ErrNotFound
		}
		return nil, gate.ErrForbidden
	}
	return post, nil
}

func (s *service) visible(actor *memberdomain.Member, post *domain.Post) bool {
	if actor.Role == memberdomain.RoleAdmin {
		return true
	}
	return post.Status == domain.StatusPublished || post.AuthorID == actor.ID
}
