package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/expense/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/observability/metrics"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"go.uber.org/zap"
)

var allRoles = []memberdomain.Role{
	memberdomain.RoleAdmin,
	memberdomain.RoleTreasurer,
	memberdomain.RoleCoordinator,
}

type service struct {
	repo    domain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics, log *zap.Logger) domain.Service {
	return &service{
		repo:    repo,
		genID:   genID,
		clock:   clk,
		metrics: m,
		log:     log,
	}
}

func (s *service) Submit(ctx context.Context, actor *memberdomain.Member, input domain.SubmitInput) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, approval.ErrInvalidAmount
	}
	if !input.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	paidTo := strings.TrimSpace(input.PaidTo)
	if paidTo == "" {
		return nil, domain.ErrInvalidPayee
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:          s.genID.Generate(),
		ClubID:      actor.ClubID,
		EventID:     input.EventID,
		SubmittedBy: actor.ID,
		PaidTo:      paidTo,
		Category:    input.Category,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		ReceiptURL:  strings.TrimSpace(input.ReceiptURL),
		Status:      approval.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Entries from reviewers skip their own queue.
	if gate.Privileged(actor) {
		expense.Status = approval.StatusApproved
		expense.ReviewedBy = &actor.ID
		expense.ReviewedAt = &now
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.metrics.RecordSubmitted(ctx, "expense", string(expense.Status))
	s.log.Info("expense submitted",
		zap.Int64("expense_id", expense.ID.Int64()),
		zap.Int64("submitted_by", actor.ID.Int64()),
		zap.String("status", string(expense.Status)),
	)
	return &expense, nil
}

func (s *service) Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(actor, expense) {
		// Hidden records look identical to missing ones.
		return nil, domain.ErrNotFound
	}
	return expense, nil
}

func (s *service) List(ctx context.Context, actor *memberdomain.Member, input domain.ListInput) ([]*domain.Expense, *pagination.PageInfo, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, nil, err
	}

	cursor, err := decodeCursor(input.Page.PageToken)
	if err != nil {
		return nil, nil, err
	}

	q := domain.ListQuery{
		ClubID:   actor.ClubID,
		Status:   input.Status,
		EventID:  input.EventID,
		Category: input.Category,
		Limit:    input.Page.Limit(),
		Cursor:   cursor,
	}

	switch {
	case input.Mine:
		q.OwnerID = &actor.ID
	case gate.Privileged(actor):
		if q.Status == nil {
			approved := approval.StatusApproved
			q.Status = &approved
		}
	default:
		q.VisibleTo = &actor.ID
	}

	expenses, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	pageInfo, expenses := pagination.BuildCursorPageInfo(expenses, q.Limit, expenseCursor)
	return expenses, pageInfo, nil
}

func (s *service) ListPending(ctx context.Context, actor *memberdomain.Member, page pagination.Pagination) ([]*domain.Expense, *pagination.PageInfo, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, nil, err
	}

	cursor, err := decodeCursor(page.PageToken)
	if err != nil {
		return nil, nil, err
	}

	pending := approval.StatusPending
	q := domain.ListQuery{
		ClubID: actor.ClubID,
		Status: &pending,
		Limit:  page.Limit(),
		Cursor: cursor,
	}

	expenses, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	pageInfo, expenses := pagination.BuildCursorPageInfo(expenses, q.Limit, expenseCursor)
	return expenses, pageInfo, nil
}

func (s *service) Approve(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	if expense.Status == approval.StatusApproved {
		s.log.Warn("approve on already approved expense",
			zap.Int64("expense_id", expense.ID.Int64()),
			zap.Int64("reviewer", actor.ID.Int64()),
		)
		return expense, nil
	}
	if !approval.CanTransition(expense.Status, approval.StatusApproved) {
		return nil, approval.ErrInvalidTransition
	}

	now := s.clock.Now()
	expense.Status = approval.StatusApproved
	expense.ReviewedBy = &actor.ID
	expense.ReviewedAt = &now
	expense.RejectReason = nil
	expense.UpdatedAt = now

	if err := s.repo.Update(ctx, *expense); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewed(ctx, "expense", "approved")
	s.log.Info("expense approved",
		zap.Int64("expense_id", expense.ID.Int64()),
		zap.Int64("reviewer", actor.ID.Int64()),
	)
	return expense, nil
}

func (s *service) Reject(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, reason string) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if !approval.CanTransition(expense.Status, approval.StatusRejected) {
		return nil, approval.ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = approval.DefaultRejectReason
	}

	now := s.clock.Now()
	expense.Status = approval.StatusRejected
	expense.ReviewedBy = &actor.ID
	expense.ReviewedAt = &now
	expense.RejectReason = &reason
	expense.UpdatedAt = now

	if err := s.repo.Update(ctx, *expense); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewed(ctx, "expense", "rejected")
	s.log.Info("expense rejected",
		zap.Int64("expense_id", expense.ID.Int64()),
		zap.Int64("reviewer", actor.ID.Int64()),
	)
	return expense, nil
}

func (s *service) Resubmit(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if expense.SubmittedBy != actor.ID {
		return nil, approval.ErrNotOwner
	}
	if !approval.CanTransition(expense.Status, approval.StatusPending) {
		return nil, approval.ErrInvalidTransition
	}

	if err := applyUpdate(expense, input); err != nil {
		return nil, err
	}

	expense.Status = approval.StatusPending
	expense.ReviewedBy = nil
	expense.ReviewedAt = nil
	expense.RejectReason = nil
	expense.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *expense); err != nil {
		return nil, err
	}

	s.metrics.RecordResubmitted(ctx, "expense")
	s.log.Info("expense resubmitted",
		zap.Int64("expense_id", expense.ID.Int64()),
		zap.Int64("submitted_by", actor.ID.Int64()),
	)
	return expense, nil
}

func (s *service) Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Expense, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleAdmin); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(expense, input); err != nil {
		return nil, err
	}
	expense.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *service) visible(actor *memberdomain.Member, expense *domain.Expense) bool {
	if gate.Privileged(actor) {
		return true
	}
	return expense.Status == approval.StatusApproved || expense.SubmittedBy == actor.ID
}

func applyUpdate(expense *domain.Expense, input domain.UpdateInput) error {
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return approval.ErrInvalidAmount
		}
		expense.Amount = *input.Amount
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return domain.ErrInvalidCategory
		}
		expense.Category = *input.Category
	}
	if input.PaidTo != nil {
		paidTo := strings.TrimSpace(*input.PaidTo)
		if paidTo == "" {
			return domain.ErrInvalidPayee
		}
		expense.PaidTo = paidTo
	}
	if input.Description != nil {
		expense.Description = strings.TrimSpace(*input.Description)
	}
	if input.ReceiptURL != nil {
		expense.ReceiptURL = strings.TrimSpace(*input.ReceiptURL)
	}
	if input.EventID != nil {
		expense.EventID = input.EventID
	}
	return nil
}

func decodeCursor(token string) (*pagination.Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return pagination.DecodeCursor(token)
}

func expenseCursor(e *domain.Expense) string {
	token, err := pagination.EncodeCursor(pagination.Cursor{
		ID:        strconv.FormatInt(e.ID.Int64(), 10),
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return ""
	}
	return token
}
